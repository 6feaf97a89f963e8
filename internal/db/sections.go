package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"folio/internal/models"
)

const sectionColumns = `id, user_id, title, description, created_at, updated_at`

func scanSection(row pgx.Row) (*models.Section, error) {
	var s models.Section
	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSections(rows pgx.Rows) ([]models.Section, error) {
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// CreateSection inserts a section. New sections take the newest timestamp,
// which places them last in display order.
func (d *DB) CreateSection(ctx context.Context, s *models.Section) error {
	query := `
		INSERT INTO sections (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query, s.UserID, s.Title, s.Description).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetSectionsByUser retrieves a user's sections in display order:
// created_at ascending, id as a stable tiebreak.
func (d *DB) GetSectionsByUser(ctx context.Context, userID uuid.UUID) ([]models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanSections(rows)
}

// GetSectionByID retrieves a single section scoped by (id, user_id).
func (d *DB) GetSectionByID(ctx context.Context, id, userID uuid.UUID) (*models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE id = $1 AND user_id = $2`
	return scanSection(d.Pool.QueryRow(ctx, query, id, userID))
}

// UpdateSection updates a section's title and description, scoped by (id, user_id).
func (d *DB) UpdateSection(ctx context.Context, s *models.Section) error {
	query := `
		UPDATE sections
		SET title = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query, s.Title, s.Description, s.ID, s.UserID).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSectionNotFound
	}
	return err
}

// DeleteSection deletes a section scoped by (id, user_id). Projects cascade.
func (d *DB) DeleteSection(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM sections WHERE id = $1 AND user_id = $2`
	result, err := d.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// CountSections returns how many sections a user has.
func (d *DB) CountSections(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sections WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// UpdateSectionTimestamps rewrites both created_at and updated_at for one
// section, scoped by (id, user_id). Reordering issues one of these per
// section; each call targets a disjoint row.
func (d *DB) UpdateSectionTimestamps(ctx context.Context, id, userID uuid.UUID, ts time.Time) error {
	query := `
		UPDATE sections
		SET created_at = $1, updated_at = $1
		WHERE id = $2 AND user_id = $3
	`
	result, err := d.Pool.Exec(ctx, query, ts, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSectionNotFound
	}
	return nil
}
