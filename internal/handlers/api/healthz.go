package api

import (
	"github.com/gofiber/fiber/v3"

	"folio/internal/db"
)

// HealthzHandler reports service liveness.
type HealthzHandler struct {
	db *db.DB
}

// NewHealthzHandler creates a new healthz handler.
func NewHealthzHandler(database *db.DB) *HealthzHandler {
	return &HealthzHandler{db: database}
}

// Check pings the database and reports status.
func (h *HealthzHandler) Check(c fiber.Ctx) error {
	if err := h.db.HealthCheck(c.Context()); err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "database unavailable")
	}
	return jsonSuccess(c, fiber.Map{"healthy": true})
}
