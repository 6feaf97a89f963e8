package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/db"
	"folio/internal/models"
	"folio/internal/validation"
)

// maxTokenAttempts bounds the retry loop when a generated token collides.
const maxTokenAttempts = 5

// ShareGateway is the slice of the persistence layer the share manager needs.
type ShareGateway interface {
	GetShareByUserID(ctx context.Context, userID uuid.UUID) (*models.Share, error)
	GetActiveShareByToken(ctx context.Context, token string) (*models.Share, error)
	InsertShare(ctx context.Context, s *models.Share) error
	UpdateShareToken(ctx context.Context, userID uuid.UUID, token string) error
	SetShareActive(ctx context.Context, userID uuid.UUID, active bool) error
	ShareTokenExists(ctx context.Context, token string) (bool, error)
}

// ShareManager owns creation, rotation, and lookup of public share tokens.
// Each user holds at most one share row.
type ShareManager struct {
	gw       ShareGateway
	newToken func() string
}

// NewShareManager creates a share manager backed by gw.
func NewShareManager(gw ShareGateway) *ShareManager {
	return &ShareManager{gw: gw, newToken: uuid.NewString}
}

// FetchActiveShare returns the caller's share record, or nil if none
// exists. It never creates one as a side effect.
func (m *ShareManager) FetchActiveShare(ctx context.Context, userID uuid.UUID) (*models.Share, error) {
	share, err := m.gw.GetShareByUserID(ctx, userID)
	if errors.Is(err, db.ErrShareNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return share, nil
}

// CreateOrRotateShare generates a fresh opaque token for the user. With no
// existing share row one is inserted with active=true; otherwise the token
// is overwritten in place, invalidating the prior public URL immediately.
// Token collisions are retried with a new token, bounded at maxTokenAttempts.
func (m *ShareManager) CreateOrRotateShare(ctx context.Context, userID uuid.UUID) (string, error) {
	existing, err := m.FetchActiveShare(ctx, userID)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token := m.newToken()

		if existing == nil {
			err = m.gw.InsertShare(ctx, &models.Share{UserID: userID, ShareID: token, Active: true})
		} else {
			err = m.gw.UpdateShareToken(ctx, userID, token)
		}
		if err == nil {
			return token, nil
		}
		if existing == nil && errors.Is(err, db.ErrShareExists) {
			// A concurrent request created the user's share first. A new
			// token cannot help; return the row that won.
			won, ferr := m.FetchActiveShare(ctx, userID)
			if ferr != nil {
				return "", ferr
			}
			if won != nil {
				return won.ShareID, nil
			}
			return "", err
		}
		if !errors.Is(err, db.ErrShareTokenTaken) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("exhausted %d share token attempts: %w", maxTokenAttempts, lastErr)
}

// SetCustomSlug replaces the user's share token with a chosen slug. The
// candidate is validated locally first, then checked for global uniqueness;
// a race lost to a concurrent claim surfaces exactly like the pre-check
// failure, as ErrSlugTaken.
func (m *ShareManager) SetCustomSlug(ctx context.Context, userID uuid.UUID, candidate string) error {
	slug := validation.NormalizeSlug(candidate)
	if ok, reason := validation.ValidateSlug(slug); !ok {
		return &ValidationError{Reason: reason}
	}

	existing, err := m.FetchActiveShare(ctx, userID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ShareID == slug {
		return nil
	}

	taken, err := m.gw.ShareTokenExists(ctx, slug)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}

	if existing == nil {
		err = m.gw.InsertShare(ctx, &models.Share{UserID: userID, ShareID: slug, Active: true})
		if errors.Is(err, db.ErrShareExists) {
			// Lost the race to create the row; claim the slug on it instead.
			err = m.gw.UpdateShareToken(ctx, userID, slug)
		}
	} else {
		err = m.gw.UpdateShareToken(ctx, userID, slug)
	}
	if errors.Is(err, db.ErrShareTokenTaken) {
		return ErrSlugTaken
	}
	return err
}

// ResolveShare maps a public token to its owner. Structurally malformed
// tokens are rejected before any gateway round-trip, and deactivated tokens
// are indistinguishable from ones that never existed.
func (m *ShareManager) ResolveShare(ctx context.Context, token string) (uuid.UUID, error) {
	if !validation.ValidateShareToken(token) {
		return uuid.Nil, ErrNotFound
	}

	share, err := m.gw.GetActiveShareByToken(ctx, token)
	if errors.Is(err, db.ErrShareNotFound) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return share.UserID, nil
}

// ToggleActive flips share visibility without discarding the token, so a
// hidden link can later be restored at the same URL.
func (m *ShareManager) ToggleActive(ctx context.Context, userID uuid.UUID, active bool) error {
	err := m.gw.SetShareActive(ctx, userID, active)
	if errors.Is(err, db.ErrShareNotFound) {
		return ErrNotFound
	}
	return err
}

// CheckSlugAvailability performs one immediate availability check against
// the store: invalid candidates and the user's current slug short-circuit
// without a gateway call. The debounced path lives in SlugChecker.
func (m *ShareManager) CheckSlugAvailability(ctx context.Context, userID uuid.UUID, candidate string) (string, error) {
	slug := validation.NormalizeSlug(candidate)
	if ok, _ := validation.ValidateSlug(slug); !ok {
		return AvailabilityInvalid, nil
	}

	existing, err := m.FetchActiveShare(ctx, userID)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.ShareID == slug {
		return AvailabilityCurrent, nil
	}

	taken, err := m.gw.ShareTokenExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if taken {
		return AvailabilityTaken, nil
	}
	return AvailabilityAvailable, nil
}
