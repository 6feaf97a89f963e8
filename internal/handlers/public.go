package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"folio/internal/config"
	"folio/internal/metrics"
	"folio/internal/portfolio"
)

// PublicHandler renders the shared portfolio page.
type PublicHandler struct {
	projector *portfolio.Projector
	cfg       *config.Config
}

// NewPublicHandler creates a new public page handler.
func NewPublicHandler(projector *portfolio.Projector, cfg *config.Config) *PublicHandler {
	return &PublicHandler{projector: projector, cfg: cfg}
}

// Show resolves a share token and renders the read-only portfolio. Unknown,
// malformed, and hidden tokens all render the same not-found page.
func (h *PublicHandler) Show(c fiber.Ctx) error {
	token := c.Params("token")

	pub, err := h.projector.Resolve(c.Context(), token, c.Get("Referer"), c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			metrics.RecordResolve("miss")
			return c.Status(fiber.StatusNotFound).Render("error", MergeBranding(fiber.Map{
				"Title":   "Not Found",
				"Message": "This portfolio does not exist or is no longer shared.",
			}, h.cfg))
		}
		metrics.RecordResolve("error")
		return err
	}

	metrics.RecordResolve("hit")
	return c.Render("portfolio", MergeBranding(fiber.Map{
		"Title":    pub.Profile.Name,
		"Profile":  pub.Profile,
		"Sections": pub.Sections,
	}, h.cfg))
}
