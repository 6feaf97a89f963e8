package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"folio/internal/models"
)

const shareColumns = `id, user_id, share_id, active, created_at, updated_at`

// Unique constraints on portfolio_shares. A token collision and a
// duplicate row for the same owner are different failures.
const (
	shareTokenConstraint = "portfolio_shares_share_id_key"
	shareOwnerConstraint = "portfolio_shares_user_id_key"
)

func scanShare(row pgx.Row) (*models.Share, error) {
	var s models.Share
	err := row.Scan(&s.ID, &s.UserID, &s.ShareID, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetShareByUserID retrieves the caller's share row, if any. At most one
// exists per user (unique constraint on user_id).
func (d *DB) GetShareByUserID(ctx context.Context, userID uuid.UUID) (*models.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM portfolio_shares WHERE user_id = $1`
	return scanShare(d.Pool.QueryRow(ctx, query, userID))
}

// GetActiveShareByToken retrieves a share by its public token. Inactive
// shares are filtered here so the caller cannot tell a deactivated token
// from one that never existed.
func (d *DB) GetActiveShareByToken(ctx context.Context, token string) (*models.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM portfolio_shares WHERE share_id = $1 AND active = true`
	return scanShare(d.Pool.QueryRow(ctx, query, token))
}

// InsertShare creates the user's share row with the given token. A token
// collision surfaces as ErrShareTokenTaken; losing a race to create the
// user's first share surfaces as ErrShareExists, which retrying with a
// fresh token cannot resolve.
func (d *DB) InsertShare(ctx context.Context, s *models.Share) error {
	query := `
		INSERT INTO portfolio_shares (user_id, share_id, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, s.UserID, s.ShareID, s.Active).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if isUniqueViolation(err, shareTokenConstraint) {
		return ErrShareTokenTaken
	}
	if isUniqueViolation(err, shareOwnerConstraint) {
		return ErrShareExists
	}
	return err
}

// UpdateShareToken overwrites the token on the user's existing share row.
// The previous public URL is invalid the instant this succeeds.
func (d *DB) UpdateShareToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		UPDATE portfolio_shares
		SET share_id = $1, updated_at = NOW()
		WHERE user_id = $2
	`
	result, err := d.Pool.Exec(ctx, query, token, userID)
	if isUniqueViolation(err, shareTokenConstraint) {
		return ErrShareTokenTaken
	}
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}

// SetShareActive flips share visibility without discarding the token.
func (d *DB) SetShareActive(ctx context.Context, userID uuid.UUID, active bool) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE portfolio_shares SET active = $1, updated_at = NOW() WHERE user_id = $2`,
		active, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}

// ShareTokenExists reports whether any user holds the given token. Used for
// the availability pre-check; the write path still handles the race via the
// unique constraint.
func (d *DB) ShareTokenExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM portfolio_shares WHERE share_id = $1)`, token).Scan(&exists)
	return exists, err
}
