package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"folio/internal/db"
	"folio/internal/models"
	"folio/internal/portfolio"
)

// SectionHandler handles section CRUD and ordering via JSON API.
type SectionHandler struct {
	db     *db.DB
	orders *portfolio.OrderCoordinator
}

// NewSectionHandler creates a new API section handler.
func NewSectionHandler(database *db.DB, orders *portfolio.OrderCoordinator) *SectionHandler {
	return &SectionHandler{db: database, orders: orders}
}

// List returns the user's full portfolio tree in display order.
func (h *SectionHandler) List(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	_, sections, err := h.db.GetPortfolioTree(c.Context(), profile.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch sections")
	}
	return jsonSuccess(c, sections)
}

// Create adds a new section at the end of the display order.
func (h *SectionHandler) Create(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return jsonError(c, fiber.StatusBadRequest, "title is required")
	}

	section := &models.Section{
		UserID:      profile.ID,
		Title:       body.Title,
		Description: body.Description,
	}
	if err := h.db.CreateSection(c.Context(), section); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create section")
	}

	return jsonSuccess(c, section)
}

// Update modifies a section's title or description.
func (h *SectionHandler) Update(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid section id")
	}

	section, err := h.db.GetSectionByID(c.Context(), id, profile.ID)
	if err != nil {
		if errors.Is(err, db.ErrSectionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "section not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch section")
	}

	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			return jsonError(c, fiber.StatusBadRequest, "title is required")
		}
		section.Title = title
	}
	if body.Description != nil {
		section.Description = *body.Description
	}

	if err := h.db.UpdateSection(c.Context(), section); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update section")
	}

	return jsonSuccess(c, section)
}

// Delete removes a section, refusing to delete the last remaining one.
func (h *SectionHandler) Delete(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid section id")
	}

	if err := h.orders.DeleteSection(c.Context(), profile.ID, id); err != nil {
		if errors.Is(err, portfolio.ErrLastSection) {
			return jsonDomainError(c, err)
		}
		if errors.Is(err, db.ErrSectionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "section not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete section")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// Move shifts a section one position up or down and returns the resulting
// order. When persisting fails the pre-move order is returned alongside the
// error so clients can restore their display.
func (h *SectionHandler) Move(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid section id")
	}

	var body struct {
		Direction string `json:"direction"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	dir := portfolio.Direction(body.Direction)
	if dir != portfolio.DirectionUp && dir != portfolio.DirectionDown {
		return jsonError(c, fiber.StatusBadRequest, `direction must be "up" or "down"`)
	}

	sections, err := h.orders.Reorder(c.Context(), profile.ID, id, dir)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  portfolio.SafeMessage(err),
			"data":   sections,
		})
	}

	return jsonSuccess(c, sections)
}
