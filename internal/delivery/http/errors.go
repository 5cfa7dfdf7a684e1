package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/boxscore/backend/internal/domain"
)

// ErrorHandler renders every error as {"error": true, "message": ...}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

// toFiberError maps domain errors to HTTP statuses; unknown errors get the fallback message
func toFiberError(err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrTeamNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSameTeam),
		errors.Is(err, domain.ErrInvalidStat),
		errors.Is(err, domain.ErrInvalidModel):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientData):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "NBA stats service unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}
