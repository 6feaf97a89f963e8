package handlers

import (
	"github.com/gofiber/fiber/v3"

	"folio/internal/config"
	"folio/internal/db"
	"folio/internal/models"
	"folio/internal/portfolio"
)

// DashboardHandler renders the owner's editing dashboard.
type DashboardHandler struct {
	db     *db.DB
	shares *portfolio.ShareManager
	cfg    *config.Config
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(database *db.DB, shares *portfolio.ShareManager, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{db: database, shares: shares, cfg: cfg}
}

// Show renders the dashboard with the user's full portfolio tree and share state.
func (h *DashboardHandler) Show(c fiber.Ctx) error {
	profile, ok := c.Locals("profile").(*models.Profile)
	if !ok {
		return c.Redirect().To("/login")
	}

	_, sections, err := h.db.GetPortfolioTree(c.Context(), profile.ID)
	if err != nil {
		return err
	}

	share, err := h.shares.FetchActiveShare(c.Context(), profile.ID)
	if err != nil {
		return err
	}

	var shareURL string
	if share != nil {
		shareURL = h.cfg.BaseURL + "/p/" + share.ShareID
	}

	return c.Render("dashboard", MergeBranding(fiber.Map{
		"Title":    "Dashboard",
		"Profile":  profile,
		"Sections": sections,
		"Share":    share,
		"ShareURL": shareURL,
	}, h.cfg))
}
