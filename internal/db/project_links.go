package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"folio/internal/models"
)

const projectLinkColumns = `id, project_id, user_id, title, url,
	health_status, health_checked_at, health_error, created_at, updated_at`

func scanProjectLink(row pgx.Row) (*models.ProjectLink, error) {
	var l models.ProjectLink
	err := row.Scan(&l.ID, &l.ProjectID, &l.UserID, &l.Title, &l.URL,
		&l.HealthStatus, &l.HealthCheckedAt, &l.HealthError, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanProjectLinks(rows pgx.Rows) ([]models.ProjectLink, error) {
	defer rows.Close()

	var links []models.ProjectLink
	for rows.Next() {
		var l models.ProjectLink
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.UserID, &l.Title, &l.URL,
			&l.HealthStatus, &l.HealthCheckedAt, &l.HealthError, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// CreateProjectLink inserts a link under a project owned by the same user.
func (d *DB) CreateProjectLink(ctx context.Context, l *models.ProjectLink) error {
	query := `
		INSERT INTO project_links (project_id, user_id, title, url)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (SELECT 1 FROM projects WHERE id = $1 AND user_id = $2)
		RETURNING id, health_status, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, l.ProjectID, l.UserID, l.Title, l.URL).
		Scan(&l.ID, &l.HealthStatus, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProjectNotFound
	}
	return err
}

// GetProjectLinksByUser retrieves all of a user's project links in insertion order.
func (d *DB) GetProjectLinksByUser(ctx context.Context, userID uuid.UUID) ([]models.ProjectLink, error) {
	query := `
		SELECT ` + projectLinkColumns + `
		FROM project_links
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanProjectLinks(rows)
}

// UpdateProjectLink updates a link's title and URL and resets its health
// state, scoped by (id, user_id).
func (d *DB) UpdateProjectLink(ctx context.Context, l *models.ProjectLink) error {
	query := `
		UPDATE project_links
		SET title = $1, url = $2, health_status = $3, health_checked_at = NULL,
			health_error = NULL, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query, l.Title, l.URL, models.HealthUnknown, l.ID, l.UserID).Scan(&l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLinkNotFound
	}
	if err != nil {
		return err
	}
	l.HealthStatus = models.HealthUnknown
	l.HealthCheckedAt = nil
	l.HealthError = nil
	return nil
}

// GetProjectLinkByID retrieves a link scoped by (id, user_id).
func (d *DB) GetProjectLinkByID(ctx context.Context, id, userID uuid.UUID) (*models.ProjectLink, error) {
	query := `SELECT ` + projectLinkColumns + ` FROM project_links WHERE id = $1 AND user_id = $2`
	return scanProjectLink(d.Pool.QueryRow(ctx, query, id, userID))
}

// DeleteProjectLink deletes a link scoped by (id, user_id).
func (d *DB) DeleteProjectLink(ctx context.Context, id, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM project_links WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// GetLinksNeedingHealthCheck retrieves links whose last check is older than maxAge.
func (d *DB) GetLinksNeedingHealthCheck(ctx context.Context, maxAge time.Duration, limit int) ([]models.ProjectLink, error) {
	cutoff := time.Now().Add(-maxAge)
	query := `
		SELECT ` + projectLinkColumns + `
		FROM project_links
		WHERE url <> '' AND (health_checked_at IS NULL OR health_checked_at < $1)
		ORDER BY health_checked_at NULLS FIRST
		LIMIT $2
	`
	rows, err := d.Pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	return scanProjectLinks(rows)
}

// UpdateLinkHealthStatus records the outcome of a health probe.
func (d *DB) UpdateLinkHealthStatus(ctx context.Context, linkID uuid.UUID, status string, errorMsg *string) error {
	query := `
		UPDATE project_links
		SET health_status = $1, health_checked_at = NOW(), health_error = $2
		WHERE id = $3
	`
	result, err := d.Pool.Exec(ctx, query, status, errorMsg, linkID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}
