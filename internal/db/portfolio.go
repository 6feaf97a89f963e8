package db

import (
	"context"

	"github.com/google/uuid"

	"folio/internal/models"
)

// GetPortfolioTree loads a user's full portfolio: profile plus sections in
// display order, each with its projects, links, and features nested. Five
// queries and in-memory assembly; no join explosion.
func (d *DB) GetPortfolioTree(ctx context.Context, userID uuid.UUID) (*models.Profile, []models.Section, error) {
	profile, err := d.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	sections, err := d.GetSectionsByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	projects, err := d.GetProjectsByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	links, err := d.GetProjectLinksByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	features, err := d.GetFeaturesByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	byProject := make(map[uuid.UUID]*models.Project, len(projects))
	for i := range projects {
		byProject[projects[i].ID] = &projects[i]
	}
	for _, l := range links {
		if p, ok := byProject[l.ProjectID]; ok {
			p.Links = append(p.Links, l)
		}
	}
	for _, f := range features {
		if p, ok := byProject[f.ProjectID]; ok {
			p.Features = append(p.Features, f)
		}
	}

	bySection := make(map[uuid.UUID]int, len(sections))
	for i := range sections {
		bySection[sections[i].ID] = i
	}
	for i := range projects {
		if idx, ok := bySection[projects[i].SectionID]; ok {
			sections[idx].Projects = append(sections[idx].Projects, projects[i])
		}
	}

	return profile, sections, nil
}
