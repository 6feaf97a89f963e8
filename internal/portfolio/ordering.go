package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"folio/internal/models"
)

// Direction of a single-position section move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// MoveSection moves the named section one position in the given direction
// and returns the resulting order. Moving the first section up or the last
// section down is a no-op, not an error: the input slice is returned
// unchanged. The input is never mutated.
func MoveSection(sections []models.Section, sectionID uuid.UUID, dir Direction) []models.Section {
	idx := -1
	for i := range sections {
		if sections[i].ID == sectionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return sections
	}

	target := idx
	switch dir {
	case DirectionUp:
		target = idx - 1
	case DirectionDown:
		target = idx + 1
	default:
		return sections
	}
	if target < 0 || target >= len(sections) {
		return sections
	}

	out := make([]models.Section, len(sections))
	copy(out, sections)
	out[idx], out[target] = out[target], out[idx]
	return out
}

// SameOrder reports whether two section lists hold the same ids in the same
// positions.
func SameOrder(a, b []models.Section) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// SectionGateway is the slice of the persistence layer the coordinator needs.
type SectionGateway interface {
	GetSectionsByUser(ctx context.Context, userID uuid.UUID) ([]models.Section, error)
	UpdateSectionTimestamps(ctx context.Context, id, userID uuid.UUID, ts time.Time) error
	CountSections(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteSection(ctx context.Context, id, userID uuid.UUID) error
}

// OrderCoordinator owns the user-visible ordering of sections. Order is not
// a column of its own: it is encoded in the created_at/updated_at
// timestamps, so persisting a new order rewrites every section's timestamps.
type OrderCoordinator struct {
	gw  SectionGateway
	now func() time.Time
}

// NewOrderCoordinator creates a coordinator backed by gw.
func NewOrderCoordinator(gw SectionGateway) *OrderCoordinator {
	return &OrderCoordinator{gw: gw, now: time.Now}
}

// PersistOrder assigns the section at position i the timestamp base+i
// seconds, written to both created_at and updated_at. The updates fire
// concurrently and are awaited jointly; each targets a disjoint row, so
// their landing order does not matter. Any single failure fails the whole
// reorder, but rows already written stay written: the store runs no
// cross-row transaction.
func (co *OrderCoordinator) PersistOrder(ctx context.Context, userID uuid.UUID, sections []models.Section, base time.Time) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range sections {
		id := sections[i].ID
		ts := base.Add(time.Duration(i) * time.Second)
		g.Go(func() error {
			return co.gw.UpdateSectionTimestamps(ctx, id, userID, ts)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %v", ErrReorderFailed, err)
	}
	return nil
}

// Reorder moves a section up or down and persists the result. On failure
// the pre-move snapshot is handed back so callers can restore their state;
// on success the list is refetched from the store rather than trusting the
// optimistic copy, reconciling timestamp precision or concurrent edits.
func (co *OrderCoordinator) Reorder(ctx context.Context, userID, sectionID uuid.UUID, dir Direction) ([]models.Section, error) {
	current, err := co.gw.GetSectionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	moved := MoveSection(current, sectionID, dir)
	if SameOrder(current, moved) {
		return current, nil
	}

	if err := co.PersistOrder(ctx, userID, moved, co.now()); err != nil {
		return current, err
	}

	return co.gw.GetSectionsByUser(ctx, userID)
}

// DeleteSection removes a section unless it is the account's last one.
func (co *OrderCoordinator) DeleteSection(ctx context.Context, userID, sectionID uuid.UUID) error {
	n, err := co.gw.CountSections(ctx, userID)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastSection
	}
	return co.gw.DeleteSection(ctx, sectionID, userID)
}
