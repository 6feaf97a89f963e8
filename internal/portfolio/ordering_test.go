package portfolio

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
)

// fakeSectionStore orders sections by timestamp like the real store does.
type fakeSectionStore struct {
	mu       sync.Mutex
	sections []models.Section
	writes   map[uuid.UUID]time.Time
	failID   uuid.UUID
	deleted  []uuid.UUID
}

func newFakeSectionStore(sections ...models.Section) *fakeSectionStore {
	return &fakeSectionStore{sections: sections, writes: make(map[uuid.UUID]time.Time)}
}

func (f *fakeSectionStore) GetSectionsByUser(_ context.Context, _ uuid.UUID) ([]models.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Section, len(f.sections))
	copy(out, f.sections)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (f *fakeSectionStore) UpdateSectionTimestamps(_ context.Context, id, _ uuid.UUID, ts time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.failID {
		return errors.New("write refused")
	}
	for i := range f.sections {
		if f.sections[i].ID == id {
			f.sections[i].CreatedAt = ts
			f.sections[i].UpdatedAt = ts
			f.writes[id] = ts
			return nil
		}
	}
	return errors.New("no such section")
}

func (f *fakeSectionStore) CountSections(_ context.Context, _ uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sections), nil
}

func (f *fakeSectionStore) DeleteSection(_ context.Context, id, _ uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	for i := range f.sections {
		if f.sections[i].ID == id {
			f.sections = append(f.sections[:i], f.sections[i+1:]...)
			return nil
		}
	}
	return errors.New("no such section")
}

func (f *fakeSectionStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func threeSections(userID uuid.UUID) []models.Section {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.Section, 3)
	for i, title := range []string{"Projects", "Writing", "Talks"} {
		out[i] = models.Section{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     title,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func orderOf(sections []models.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Title
	}
	return out
}

func sameTitles(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMoveSection(t *testing.T) {
	sections := threeSections(uuid.New())
	a, b, c := sections[0], sections[1], sections[2]

	tests := []struct {
		name string
		id   uuid.UUID
		dir  Direction
		want []string
	}{
		{"middle up", b.ID, DirectionUp, []string{"Writing", "Projects", "Talks"}},
		{"middle down", b.ID, DirectionDown, []string{"Projects", "Talks", "Writing"}},
		{"first down", a.ID, DirectionDown, []string{"Writing", "Projects", "Talks"}},
		{"last up", c.ID, DirectionUp, []string{"Projects", "Talks", "Writing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveSection(sections, tt.id, tt.dir)
			if !sameTitles(orderOf(got), tt.want...) {
				t.Errorf("MoveSection() order = %v, want %v", orderOf(got), tt.want)
			}
			// The input must be untouched.
			if !sameTitles(orderOf(sections), "Projects", "Writing", "Talks") {
				t.Error("MoveSection() mutated its input")
			}
		})
	}
}

func TestMoveSectionNoops(t *testing.T) {
	sections := threeSections(uuid.New())

	tests := []struct {
		name string
		id   uuid.UUID
		dir  Direction
	}{
		{"first up", sections[0].ID, DirectionUp},
		{"last down", sections[2].ID, DirectionDown},
		{"unknown id", uuid.New(), DirectionUp},
		{"bad direction", sections[1].ID, Direction("sideways")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveSection(sections, tt.id, tt.dir)
			if !SameOrder(got, sections) {
				t.Errorf("MoveSection() reordered on a no-op move: %v", orderOf(got))
			}
		})
	}
}

func TestPersistOrderTimestamps(t *testing.T) {
	userID := uuid.New()
	sections := threeSections(userID)
	store := newFakeSectionStore(sections...)
	co := NewOrderCoordinator(store)

	base := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	if err := co.PersistOrder(context.Background(), userID, sections, base); err != nil {
		t.Fatalf("PersistOrder() error = %v", err)
	}

	for i, s := range sections {
		want := base.Add(time.Duration(i) * time.Second)
		got, ok := store.writes[s.ID]
		if !ok {
			t.Fatalf("section %d (%s) never written", i, s.Title)
		}
		if !got.Equal(want) {
			t.Errorf("section %d timestamp = %v, want %v", i, got, want)
		}
	}

	// Both columns carry the encoded position.
	stored, _ := store.GetSectionsByUser(context.Background(), userID)
	for _, s := range stored {
		if !s.CreatedAt.Equal(s.UpdatedAt) {
			t.Errorf("section %s created_at %v != updated_at %v", s.Title, s.CreatedAt, s.UpdatedAt)
		}
	}
}

func TestReorder(t *testing.T) {
	userID := uuid.New()
	sections := threeSections(userID)
	store := newFakeSectionStore(sections...)
	co := NewOrderCoordinator(store)

	got, err := co.Reorder(context.Background(), userID, sections[1].ID, DirectionUp)
	if err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	if !sameTitles(orderOf(got), "Writing", "Projects", "Talks") {
		t.Errorf("Reorder() order = %v, want [Writing Projects Talks]", orderOf(got))
	}

	// The new order must survive an independent fetch.
	refetched, err := store.GetSectionsByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetSectionsByUser() error = %v", err)
	}
	if !SameOrder(got, refetched) {
		t.Errorf("persisted order %v does not match returned order %v", orderOf(refetched), orderOf(got))
	}
}

func TestReorderNoopSkipsWrites(t *testing.T) {
	userID := uuid.New()
	sections := threeSections(userID)
	store := newFakeSectionStore(sections...)
	co := NewOrderCoordinator(store)

	got, err := co.Reorder(context.Background(), userID, sections[0].ID, DirectionUp)
	if err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	if !SameOrder(got, sections) {
		t.Errorf("Reorder() changed order on edge move: %v", orderOf(got))
	}
	if n := store.writeCount(); n != 0 {
		t.Errorf("edge move wrote %d timestamps, want 0", n)
	}
}

func TestReorderFailureReturnsSnapshot(t *testing.T) {
	userID := uuid.New()
	sections := threeSections(userID)
	store := newFakeSectionStore(sections...)
	store.failID = sections[2].ID
	co := NewOrderCoordinator(store)

	got, err := co.Reorder(context.Background(), userID, sections[2].ID, DirectionUp)
	if !errors.Is(err, ErrReorderFailed) {
		t.Fatalf("Reorder() error = %v, want ErrReorderFailed", err)
	}
	// The caller gets the pre-move order back to restore its view.
	if !sameTitles(orderOf(got), "Projects", "Writing", "Talks") {
		t.Errorf("Reorder() snapshot = %v, want pre-move order", orderOf(got))
	}
}

func TestDeleteSectionGuardsLastOne(t *testing.T) {
	userID := uuid.New()
	only := models.Section{ID: uuid.New(), UserID: userID, Title: "Projects"}
	store := newFakeSectionStore(only)
	co := NewOrderCoordinator(store)

	if err := co.DeleteSection(context.Background(), userID, only.ID); !errors.Is(err, ErrLastSection) {
		t.Fatalf("DeleteSection() error = %v, want ErrLastSection", err)
	}
	if len(store.deleted) != 0 {
		t.Error("delete reached the store despite the guard")
	}
}

func TestDeleteSection(t *testing.T) {
	userID := uuid.New()
	sections := threeSections(userID)
	store := newFakeSectionStore(sections...)
	co := NewOrderCoordinator(store)

	if err := co.DeleteSection(context.Background(), userID, sections[1].ID); err != nil {
		t.Fatalf("DeleteSection() error = %v", err)
	}
	left, _ := store.GetSectionsByUser(context.Background(), userID)
	if !sameTitles(orderOf(left), "Projects", "Talks") {
		t.Errorf("remaining sections = %v, want [Projects Talks]", orderOf(left))
	}
}
