package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level database error sentinels.
var (
	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")

	// Section errors
	ErrSectionNotFound = errors.New("section not found")

	// Project errors
	ErrProjectNotFound = errors.New("project not found")
	ErrLinkNotFound    = errors.New("project link not found")
	ErrFeatureNotFound = errors.New("feature not found")

	// Share errors
	ErrShareNotFound   = errors.New("share not found")
	ErrShareExists     = errors.New("share already exists for user")
	ErrShareTokenTaken = errors.New("share token already exists")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation on the named constraint. Tables carrying more than one unique
// constraint map each to its own sentinel, so callers must say which
// collision they mean.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
