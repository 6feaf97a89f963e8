package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"folio/internal/db"
	"folio/internal/models"
	"folio/internal/validation"
)

// ProjectorGateway is the slice of the persistence layer the projector needs.
type ProjectorGateway interface {
	GetPortfolioTree(ctx context.Context, userID uuid.UUID) (*models.Profile, []models.Section, error)
	InsertViewEvent(ctx context.Context, e *models.ViewEvent) error
}

// Projector resolves a public share token to a sanitized, read-only
// portfolio tree and records a view event for each successful resolution.
type Projector struct {
	shares *ShareManager
	gw     ProjectorGateway
}

// NewProjector creates a projector using shares for token resolution.
func NewProjector(shares *ShareManager, gw ProjectorGateway) *Projector {
	return &Projector{shares: shares, gw: gw}
}

// Resolve builds the public view for a share token. All profile text is
// HTML-escaped and every link URL is re-validated before the tree leaves
// this package; sections arrive in display order from the store.
func (p *Projector) Resolve(ctx context.Context, token, referrer, userAgent string) (*models.PublicPortfolio, error) {
	ownerID, err := p.shares.ResolveShare(ctx, token)
	if err != nil {
		return nil, err
	}

	profile, sections, err := p.gw.GetPortfolioTree(ctx, ownerID)
	if errors.Is(err, db.ErrProfileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	pub := &models.PublicPortfolio{
		Profile:  sanitizeProfile(profile),
		Sections: sanitizeSections(sections),
	}

	event := &models.ViewEvent{ShareID: token, Referrer: referrer, UserAgent: userAgent}
	if err := p.gw.InsertViewEvent(ctx, event); err != nil {
		// A failed analytics write never fails the view itself.
		slog.Error("failed to record portfolio view", "error", err)
	}

	return pub, nil
}

func sanitizeProfile(p *models.Profile) models.PublicProfile {
	pub := models.PublicProfile{
		Name:        validation.SanitizeText(p.Name),
		Photo:       sanitizePhoto(p.Photo),
		Role:        validation.SanitizeText(p.RoleTitle),
		Tagline:     validation.SanitizeText(p.Tagline),
		Description: validation.SanitizeText(p.Description),
	}
	if p.ShowEmail {
		pub.Email = validation.SanitizeText(p.Email)
	}
	if p.ShowPhone {
		pub.Telephone = validation.SanitizeText(p.Telephone)
	}
	return pub
}

// sanitizePhoto passes through inline image data URLs and well-formed web
// URLs; anything else renders as no photo.
func sanitizePhoto(raw string) string {
	if strings.HasPrefix(raw, "data:image/") {
		return raw
	}
	if ok, _ := validation.ValidateHTTPURL(raw); ok {
		return raw
	}
	return ""
}

func sanitizeSections(sections []models.Section) []models.Section {
	out := make([]models.Section, len(sections))
	copy(out, sections)

	for i := range out {
		out[i].Title = validation.SanitizeText(out[i].Title)
		out[i].Description = validation.SanitizeText(out[i].Description)

		projects := make([]models.Project, len(out[i].Projects))
		copy(projects, out[i].Projects)
		for j := range projects {
			projects[j].Title = validation.SanitizeText(projects[j].Title)
			projects[j].Description = validation.SanitizeText(projects[j].Description)
			projects[j].ProjectRole = validation.SanitizeText(projects[j].ProjectRole)

			links := make([]models.ProjectLink, len(projects[j].Links))
			copy(links, projects[j].Links)
			for k := range links {
				links[k].Title = validation.SanitizeText(links[k].Title)
				links[k].URL = validation.ValidateAndFormatURL(links[k].URL)
			}
			projects[j].Links = links

			features := make([]models.Feature, len(projects[j].Features))
			copy(features, projects[j].Features)
			for k := range features {
				features[k].Title = validation.SanitizeText(features[k].Title)
			}
			projects[j].Features = features
		}
		out[i].Projects = projects
	}

	return out
}
