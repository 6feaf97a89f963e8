package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"folio/internal/db"
	"folio/internal/models"
	"folio/internal/portfolio"
)

// ShareHandler handles share-link management via JSON API.
type ShareHandler struct {
	shares *portfolio.ShareManager
	db     *db.DB
}

// NewShareHandler creates a new API share handler.
func NewShareHandler(shares *portfolio.ShareManager, database *db.DB) *ShareHandler {
	return &ShareHandler{shares: shares, db: database}
}

// Get returns the user's share link, if any, with its total view count.
func (h *ShareHandler) Get(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	share, err := h.shares.FetchActiveShare(c.Context(), profile.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch share")
	}
	if share == nil {
		return jsonSuccess(c, nil)
	}

	views, err := h.db.CountViewsByUser(c.Context(), share)
	if err != nil {
		views = 0
	}

	return jsonSuccess(c, fiber.Map{
		"share": share,
		"views": views,
	})
}

// Rotate issues a fresh random token, creating the share on first use. Any
// previously shared URL stops resolving the moment this returns.
func (h *ShareHandler) Rotate(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	token, err := h.shares.CreateOrRotateShare(c.Context(), profile.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, portfolio.SafeMessage(err))
	}

	return jsonSuccess(c, fiber.Map{"share_id": token})
}

// SetSlug replaces the share token with a user-chosen slug.
func (h *ShareHandler) SetSlug(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.shares.SetCustomSlug(c.Context(), profile.ID, body.Slug); err != nil {
		return jsonDomainError(c, err)
	}

	share, err := h.shares.FetchActiveShare(c.Context(), profile.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch share")
	}
	return jsonSuccess(c, share)
}

// SetActive shows or hides the share without discarding its token.
func (h *ShareHandler) SetActive(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.shares.ToggleActive(c.Context(), profile.ID, body.Active); err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.Map{"active": body.Active})
}

// CheckSlug reports whether a candidate slug could be claimed right now.
// Clients debounce their keystrokes before calling this.
func (h *ShareHandler) CheckSlug(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	slug := c.Query("slug", "")
	status, err := h.shares.CheckSlugAvailability(c.Context(), profile.ID, slug)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to check availability")
	}

	return jsonSuccess(c, models.AvailabilityResponse{Slug: slug, Status: status})
}
