package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"folio/internal/metrics"
	"folio/internal/portfolio"
)

// PublicHandler serves the read-only portfolio projection by share token.
type PublicHandler struct {
	projector *portfolio.Projector
}

// NewPublicHandler creates a new public portfolio handler.
func NewPublicHandler(projector *portfolio.Projector) *PublicHandler {
	return &PublicHandler{projector: projector}
}

// Resolve returns the sanitized portfolio for a share token. No
// authentication: the token is the capability.
func (h *PublicHandler) Resolve(c fiber.Ctx) error {
	token := c.Params("token")

	pub, err := h.projector.Resolve(c.Context(), token, c.Get("Referer"), c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			metrics.RecordResolve("miss")
			return jsonError(c, fiber.StatusNotFound, portfolio.SafeMessage(err))
		}
		metrics.RecordResolve("error")
		return jsonError(c, fiber.StatusInternalServerError, portfolio.SafeMessage(err))
	}

	metrics.RecordResolve("hit")
	return jsonSuccess(c, pub)
}
