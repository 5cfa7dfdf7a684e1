package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/boxscore/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler, metrics *service.Metrics) {
	// Health check
	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/teams", handler.ListTeams)
		api.Get("/teams/:abbr/roster", handler.GetRoster)

		api.Get("/players/search", handler.SearchPlayer)
		api.Get("/players/:id/gamelogs", handler.GetGameLogs)

		api.Post("/predict", handler.Predict)
		api.Post("/simulate/threes", handler.SimulateThrees)
		api.Get("/predictions", handler.ListPredictions)
	}
}
