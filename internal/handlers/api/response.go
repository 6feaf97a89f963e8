package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"folio/internal/models"
	"folio/internal/portfolio"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonDomainError maps a domain error to its HTTP status and safe message.
func jsonDomainError(c fiber.Ctx, err error) error {
	var ve *portfolio.ValidationError
	switch {
	case errors.As(err, &ve):
		return jsonError(c, fiber.StatusBadRequest, portfolio.SafeMessage(err))
	case errors.Is(err, portfolio.ErrSlugTaken):
		return jsonError(c, fiber.StatusConflict, portfolio.SafeMessage(err))
	case errors.Is(err, portfolio.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, portfolio.SafeMessage(err))
	case errors.Is(err, portfolio.ErrLastSection):
		return jsonError(c, fiber.StatusConflict, portfolio.SafeMessage(err))
	default:
		return jsonError(c, fiber.StatusInternalServerError, portfolio.SafeMessage(err))
	}
}

// currentProfile pulls the authenticated profile loaded by the auth middleware.
func currentProfile(c fiber.Ctx) (*models.Profile, bool) {
	profile, ok := c.Locals("profile").(*models.Profile)
	return profile, ok
}
