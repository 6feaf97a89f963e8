package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"folio/internal/models"
)

// profileColumns is the standard column list for profile queries.
const profileColumns = `id, sub, email, name, photo, telephone, role_title, tagline,
	description, is_public, show_email, show_phone, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.Sub,
		&p.Email,
		&p.Name,
		&p.Photo,
		&p.Telephone,
		&p.RoleTitle,
		&p.Tagline,
		&p.Description,
		&p.IsPublic,
		&p.ShowEmail,
		&p.ShowPhone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile creates or refreshes a profile keyed by OIDC subject.
// Identity fields from the provider are refreshed on every login; the
// portfolio fields the user edits are left alone.
func (d *DB) UpsertProfile(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (sub, email, name, photo)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sub) DO UPDATE SET
			email = EXCLUDED.email,
			updated_at = NOW()
		RETURNING ` + profileColumns

	updated, err := scanProfile(d.Pool.QueryRow(ctx, query, p.Sub, p.Email, p.Name, p.Photo))
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

// GetProfileBySub retrieves a profile by its OIDC subject identifier.
func (d *DB) GetProfileBySub(ctx context.Context, sub string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE sub = $1`
	return scanProfile(d.Pool.QueryRow(ctx, query, sub))
}

// GetProfileByID retrieves a profile by its UUID.
func (d *DB) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(d.Pool.QueryRow(ctx, query, id))
}

// UpdateProfile writes the user-editable profile fields, scoped by id.
func (d *DB) UpdateProfile(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, photo = $2, email = $3, telephone = $4, role_title = $5,
			tagline = $6, description = $7, is_public = $8, show_email = $9,
			show_phone = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		p.Name,
		p.Photo,
		p.Email,
		p.Telephone,
		p.RoleTitle,
		p.Tagline,
		p.Description,
		p.IsPublic,
		p.ShowEmail,
		p.ShowPhone,
		p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProfileNotFound
	}
	return err
}
