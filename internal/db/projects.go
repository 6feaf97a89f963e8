package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"folio/internal/models"
)

const projectColumns = `id, section_id, user_id, title, description, project_role, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.SectionID, &p.UserID, &p.Title, &p.Description, &p.ProjectRole, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProjects(rows pgx.Rows) ([]models.Project, error) {
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.SectionID, &p.UserID, &p.Title, &p.Description, &p.ProjectRole, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject inserts a project under a section. The section is verified
// to belong to the same user so a project cannot be attached across accounts.
func (d *DB) CreateProject(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (section_id, user_id, title, description, project_role)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM sections WHERE id = $1 AND user_id = $2)
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, p.SectionID, p.UserID, p.Title, p.Description, p.ProjectRole).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSectionNotFound
	}
	return err
}

// GetProjectByID retrieves a project scoped by (id, user_id).
func (d *DB) GetProjectByID(ctx context.Context, id, userID uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND user_id = $2`
	return scanProject(d.Pool.QueryRow(ctx, query, id, userID))
}

// GetProjectsByUser retrieves all projects for a user in insertion order.
func (d *DB) GetProjectsByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanProjects(rows)
}

// UpdateProject updates a project's editable fields, scoped by (id, user_id).
func (d *DB) UpdateProject(ctx context.Context, p *models.Project) error {
	query := `
		UPDATE projects
		SET title = $1, description = $2, project_role = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query, p.Title, p.Description, p.ProjectRole, p.ID, p.UserID).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProjectNotFound
	}
	return err
}

// DeleteProject deletes a project scoped by (id, user_id). Links and
// features cascade.
func (d *DB) DeleteProject(ctx context.Context, id, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}
