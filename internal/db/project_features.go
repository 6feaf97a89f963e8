package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"folio/internal/models"
)

// CreateFeature inserts a feature tag under a project owned by the same user.
func (d *DB) CreateFeature(ctx context.Context, f *models.Feature) error {
	query := `
		INSERT INTO project_features (project_id, user_id, title)
		SELECT $1, $2, $3
		WHERE EXISTS (SELECT 1 FROM projects WHERE id = $1 AND user_id = $2)
		RETURNING id, created_at
	`
	err := d.Pool.QueryRow(ctx, query, f.ProjectID, f.UserID, f.Title).Scan(&f.ID, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProjectNotFound
	}
	return err
}

// GetFeaturesByUser retrieves all of a user's feature tags in insertion order.
func (d *DB) GetFeaturesByUser(ctx context.Context, userID uuid.UUID) ([]models.Feature, error) {
	query := `
		SELECT id, project_id, user_id, title, created_at
		FROM project_features
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []models.Feature
	for rows.Next() {
		var f models.Feature
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.UserID, &f.Title, &f.CreatedAt); err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// UpdateFeature renames a feature tag, scoped by (id, user_id).
func (d *DB) UpdateFeature(ctx context.Context, f *models.Feature) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE project_features SET title = $1 WHERE id = $2 AND user_id = $3`,
		f.Title, f.ID, f.UserID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrFeatureNotFound
	}
	return nil
}

// DeleteFeature deletes a feature tag scoped by (id, user_id).
func (d *DB) DeleteFeature(ctx context.Context, id, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM project_features WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrFeatureNotFound
	}
	return nil
}
