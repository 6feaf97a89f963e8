package api

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"

	"folio/internal/db"
)

// ProfileHandler handles the owner's profile via JSON API.
type ProfileHandler struct {
	db *db.DB
}

// NewProfileHandler creates a new API profile handler.
func NewProfileHandler(database *db.DB) *ProfileHandler {
	return &ProfileHandler{db: database}
}

// Get returns the authenticated user's profile.
func (h *ProfileHandler) Get(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return jsonSuccess(c, profile)
}

// Update modifies the authenticated user's profile fields.
func (h *ProfileHandler) Update(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Name        *string `json:"name"`
		Photo       *string `json:"photo"`
		Telephone   *string `json:"telephone"`
		RoleTitle   *string `json:"role"`
		Tagline     *string `json:"tagline"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
		ShowEmail   *bool   `json:"show_email"`
		ShowPhone   *bool   `json:"show_phone"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	// Text is stored as typed and escaped only on the public read side.
	if body.Name != nil {
		if name := strings.TrimSpace(*body.Name); name != "" {
			profile.Name = name
		}
	}
	if body.Photo != nil {
		profile.Photo = strings.TrimSpace(*body.Photo)
	}
	if body.Telephone != nil {
		profile.Telephone = strings.TrimSpace(*body.Telephone)
	}
	if body.RoleTitle != nil {
		profile.RoleTitle = strings.TrimSpace(*body.RoleTitle)
	}
	if body.Tagline != nil {
		profile.Tagline = strings.TrimSpace(*body.Tagline)
	}
	if body.Description != nil {
		profile.Description = *body.Description
	}
	if body.IsPublic != nil {
		profile.IsPublic = *body.IsPublic
	}
	if body.ShowEmail != nil {
		profile.ShowEmail = *body.ShowEmail
	}
	if body.ShowPhone != nil {
		profile.ShowPhone = *body.ShowPhone
	}

	if err := h.db.UpdateProfile(c.Context(), profile); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update profile")
	}

	return jsonSuccess(c, profile)
}
