package http

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/boxscore/backend/internal/domain"
	"github.com/boxscore/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	playerSvc  *service.PlayerDataService
	predictSvc *service.PredictionService
	repo       service.DataRepository
	logger     *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(playerSvc *service.PlayerDataService, predictSvc *service.PredictionService, repo service.DataRepository, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		playerSvc:  playerSvc,
		predictSvc: predictSvc,
		repo:       repo,
		logger:     logger,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	database := "ok"
	if err := h.repo.Health(c.Context()); err != nil {
		h.logger.Warn("database health check failed", "error", err)
		database = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "boxscore-backend",
		"version":  "1.0.0",
		"database": database,
	})
}

// ListTeams returns the static franchise table
func (h *Handler) ListTeams(c *fiber.Ctx) error {
	teams := domain.Teams()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    teams,
		"count":   len(teams),
	})
}

// GetRoster returns a team's current roster
func (h *Handler) GetRoster(c *fiber.Ctx) error {
	roster, err := h.playerSvc.Roster(c.Context(), c.Params("abbr"))
	if err != nil {
		return toFiberError(err, "Failed to fetch team roster")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    roster,
		"count":   len(roster),
	})
}

// SearchPlayer resolves a free-text player name
func (h *Handler) SearchPlayer(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Query parameter 'name' is required")
	}

	match, err := h.playerSvc.ResolvePlayer(c.Context(), name)
	if err != nil {
		return toFiberError(err, "Failed to search players")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    match,
	})
}

// GetGameLogs returns a player's combined current and previous season logs
func (h *Handler) GetGameLogs(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid player id")
	}

	logs, err := h.playerSvc.GameLogs(c.Context(), id)
	if err != nil {
		return toFiberError(err, "Failed to fetch game logs")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    logs,
		"count":   len(logs),
	})
}

// Predict trains per-player models and returns both team projections
func (h *Handler) Predict(c *fiber.Ctx) error {
	var req domain.PredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	prediction, err := h.predictSvc.PredictMatchup(c.Context(), req)
	if err != nil {
		h.logger.Error("prediction failed", "home", req.HomeTeam, "away", req.AwayTeam, "error", err)
		return toFiberError(err, "Failed to get prediction")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    prediction,
	})
}

// SimulateThrees runs the three-point Monte Carlo for a matchup
func (h *Handler) SimulateThrees(c *fiber.Ctx) error {
	var req domain.SimulationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Iterations < 0 || req.Iterations > 1_000_000 {
		return fiber.NewError(fiber.StatusBadRequest, "iterations must be between 0 and 1000000")
	}

	sim, err := h.predictSvc.SimulateThrees(c.Context(), req)
	if err != nil {
		return toFiberError(err, "Failed to run simulation")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    sim,
	})
}

// ListPredictions returns stored predictions, newest first
func (h *Handler) ListPredictions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 200 {
		limit = 20
	}

	data, err := h.predictSvc.History(c.Context(), limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch prediction history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}
