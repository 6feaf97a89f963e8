package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"folio/internal/db"
	"folio/internal/models"
	"folio/internal/validation"
)

// ProjectHandler handles project, link, and feature CRUD via JSON API.
type ProjectHandler struct {
	db *db.DB
}

// NewProjectHandler creates a new API project handler.
func NewProjectHandler(database *db.DB) *ProjectHandler {
	return &ProjectHandler{db: database}
}

// Create adds a project to one of the user's sections.
func (h *ProjectHandler) Create(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		SectionID   string `json:"section_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Role        string `json:"project_role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sectionID, err := uuid.Parse(body.SectionID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid section id")
	}

	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return jsonError(c, fiber.StatusBadRequest, "title is required")
	}

	project := &models.Project{
		SectionID:   sectionID,
		UserID:      profile.ID,
		Title:       body.Title,
		Description: body.Description,
		ProjectRole: body.Role,
	}
	if err := h.db.CreateProject(c.Context(), project); err != nil {
		if errors.Is(err, db.ErrSectionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "section not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create project")
	}

	return jsonSuccess(c, project)
}

// Update modifies a project's fields.
func (h *ProjectHandler) Update(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid project id")
	}

	project, err := h.db.GetProjectByID(c.Context(), id, profile.ID)
	if err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			return jsonError(c, fiber.StatusNotFound, "project not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch project")
	}

	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Role        *string `json:"project_role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			return jsonError(c, fiber.StatusBadRequest, "title is required")
		}
		project.Title = title
	}
	if body.Description != nil {
		project.Description = *body.Description
	}
	if body.Role != nil {
		project.ProjectRole = *body.Role
	}

	if err := h.db.UpdateProject(c.Context(), project); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update project")
	}

	return jsonSuccess(c, project)
}

// Delete removes a project and, via cascade, its links and features.
func (h *ProjectHandler) Delete(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid project id")
	}

	if err := h.db.DeleteProject(c.Context(), id, profile.ID); err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			return jsonError(c, fiber.StatusNotFound, "project not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete project")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// CreateLink attaches an outbound link to a project. The URL is normalized
// the same way the public view renders it, so the owner sees exactly what
// visitors will get; a URL that normalizes to nothing is rejected.
func (h *ProjectHandler) CreateLink(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		ProjectID string `json:"project_id"`
		Title     string `json:"title"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	projectID, err := uuid.Parse(body.ProjectID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid project id")
	}

	url := validation.ValidateAndFormatURL(body.URL)
	if url == "" {
		return jsonError(c, fiber.StatusBadRequest, "url must be http, https, mailto, or tel")
	}

	link := &models.ProjectLink{
		ProjectID: projectID,
		UserID:    profile.ID,
		Title:     strings.TrimSpace(body.Title),
		URL:       url,
	}
	if err := h.db.CreateProjectLink(c.Context(), link); err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			return jsonError(c, fiber.StatusNotFound, "project not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create link")
	}

	return jsonSuccess(c, link)
}

// UpdateLink modifies a link's title or URL. A URL change resets the link's
// health status until the background checker revisits it.
func (h *ProjectHandler) UpdateLink(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	var body struct {
		Title *string `json:"title"`
		URL   *string `json:"url"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	link, err := h.db.GetProjectLinkByID(c.Context(), id, profile.ID)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link")
	}

	if body.Title != nil {
		link.Title = strings.TrimSpace(*body.Title)
	}
	if body.URL != nil {
		url := validation.ValidateAndFormatURL(*body.URL)
		if url == "" {
			return jsonError(c, fiber.StatusBadRequest, "url must be http, https, mailto, or tel")
		}
		link.URL = url
	}

	if err := h.db.UpdateProjectLink(c.Context(), link); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update link")
	}

	return jsonSuccess(c, link)
}

// DeleteLink removes a project link.
func (h *ProjectHandler) DeleteLink(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	if err := h.db.DeleteProjectLink(c.Context(), id, profile.ID); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete link")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// CreateFeature adds a highlight bullet to a project.
func (h *ProjectHandler) CreateFeature(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		ProjectID string `json:"project_id"`
		Title     string `json:"title"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	projectID, err := uuid.Parse(body.ProjectID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid project id")
	}

	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return jsonError(c, fiber.StatusBadRequest, "title is required")
	}

	feature := &models.Feature{
		ProjectID: projectID,
		UserID:    profile.ID,
		Title:     body.Title,
	}
	if err := h.db.CreateFeature(c.Context(), feature); err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			return jsonError(c, fiber.StatusNotFound, "project not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create feature")
	}

	return jsonSuccess(c, feature)
}

// DeleteFeature removes a highlight bullet.
func (h *ProjectHandler) DeleteFeature(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid feature id")
	}

	if err := h.db.DeleteFeature(c.Context(), id, profile.ID); err != nil {
		if errors.Is(err, db.ErrFeatureNotFound) {
			return jsonError(c, fiber.StatusNotFound, "feature not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete feature")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}
