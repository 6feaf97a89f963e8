package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"folio/internal/db"
	"folio/internal/models"
)

// fakeShareStore is an in-memory ShareGateway that counts invocations.
type fakeShareStore struct {
	mu         sync.Mutex
	byUser     map[uuid.UUID]*models.Share
	failWrites int    // writes to fail with ErrShareTokenTaken before succeeding
	raceWinner string // next insert loses the first-share race to this token
	calls      int
}

func newFakeShareStore() *fakeShareStore {
	return &fakeShareStore{byUser: make(map[uuid.UUID]*models.Share)}
}

func (f *fakeShareStore) GetShareByUserID(_ context.Context, userID uuid.UUID) (*models.Share, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	s, ok := f.byUser[userID]
	if !ok {
		return nil, db.ErrShareNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeShareStore) GetActiveShareByToken(_ context.Context, token string) (*models.Share, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, s := range f.byUser {
		if s.ShareID == token && s.Active {
			cp := *s
			return &cp, nil
		}
	}
	return nil, db.ErrShareNotFound
}

func (f *fakeShareStore) InsertShare(_ context.Context, s *models.Share) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWrites > 0 {
		f.failWrites--
		return db.ErrShareTokenTaken
	}
	if f.raceWinner != "" {
		f.byUser[s.UserID] = &models.Share{ID: uuid.New(), UserID: s.UserID, ShareID: f.raceWinner, Active: true}
		f.raceWinner = ""
		return db.ErrShareExists
	}
	for _, existing := range f.byUser {
		if existing.ShareID == s.ShareID {
			return db.ErrShareTokenTaken
		}
	}
	if _, ok := f.byUser[s.UserID]; ok {
		return db.ErrShareExists
	}
	s.ID = uuid.New()
	cp := *s
	f.byUser[s.UserID] = &cp
	return nil
}

func (f *fakeShareStore) UpdateShareToken(_ context.Context, userID uuid.UUID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWrites > 0 {
		f.failWrites--
		return db.ErrShareTokenTaken
	}
	for uid, existing := range f.byUser {
		if uid != userID && existing.ShareID == token {
			return db.ErrShareTokenTaken
		}
	}
	s, ok := f.byUser[userID]
	if !ok {
		return db.ErrShareNotFound
	}
	s.ShareID = token
	return nil
}

func (f *fakeShareStore) SetShareActive(_ context.Context, userID uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	s, ok := f.byUser[userID]
	if !ok {
		return db.ErrShareNotFound
	}
	s.Active = active
	return nil
}

func (f *fakeShareStore) ShareTokenExists(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, s := range f.byUser {
		if s.ShareID == token {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeShareStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestFetchActiveShareMissing(t *testing.T) {
	store := newFakeShareStore()
	m := NewShareManager(store)

	share, err := m.FetchActiveShare(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("FetchActiveShare() error = %v", err)
	}
	if share != nil {
		t.Errorf("FetchActiveShare() = %+v, want nil", share)
	}
}

func TestCreateOrRotateShare(t *testing.T) {
	store := newFakeShareStore()
	m := NewShareManager(store)
	userID := uuid.New()
	ctx := context.Background()

	first, err := m.CreateOrRotateShare(ctx, userID)
	if err != nil {
		t.Fatalf("CreateOrRotateShare() first call error = %v", err)
	}
	if first == "" {
		t.Fatal("CreateOrRotateShare() returned empty token")
	}

	second, err := m.CreateOrRotateShare(ctx, userID)
	if err != nil {
		t.Fatalf("CreateOrRotateShare() second call error = %v", err)
	}
	if second == first {
		t.Error("rotation did not replace the token")
	}

	// At most one share row per user, active, holding the latest token.
	if len(store.byUser) != 1 {
		t.Fatalf("store holds %d share rows, want 1", len(store.byUser))
	}
	share := store.byUser[userID]
	if !share.Active {
		t.Error("share is not active after rotation")
	}
	if share.ShareID != second {
		t.Errorf("stored token = %q, want %q (latest call's return)", share.ShareID, second)
	}
}

func TestCreateOrRotateShareRetriesOnCollision(t *testing.T) {
	store := newFakeShareStore()
	store.failWrites = 2
	m := NewShareManager(store)

	token, err := m.CreateOrRotateShare(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("CreateOrRotateShare() error = %v, want success after retries", err)
	}
	if token == "" {
		t.Error("CreateOrRotateShare() returned empty token")
	}
}

func TestCreateOrRotateShareExhaustsRetries(t *testing.T) {
	store := newFakeShareStore()
	store.failWrites = maxTokenAttempts
	m := NewShareManager(store)

	_, err := m.CreateOrRotateShare(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("CreateOrRotateShare() succeeded, want error after exhausting retries")
	}
	if !errors.Is(err, db.ErrShareTokenTaken) {
		t.Errorf("error %v does not wrap the collision cause", err)
	}
}

func TestCreateOrRotateShareFirstShareRace(t *testing.T) {
	store := newFakeShareStore()
	store.raceWinner = "winner-token"
	m := NewShareManager(store)
	userID := uuid.New()

	token, err := m.CreateOrRotateShare(context.Background(), userID)
	if err != nil {
		t.Fatalf("CreateOrRotateShare() error = %v, want the winner's token", err)
	}
	if token != "winner-token" {
		t.Errorf("CreateOrRotateShare() = %q, want the concurrently created token", token)
	}
	if len(store.byUser) != 1 {
		t.Fatalf("store holds %d share rows, want 1", len(store.byUser))
	}
	if got := store.byUser[userID].ShareID; got != "winner-token" {
		t.Errorf("stored token = %q, the losing insert must not overwrite it", got)
	}
}

func TestSetCustomSlugFirstShareRace(t *testing.T) {
	store := newFakeShareStore()
	store.raceWinner = "winner-token"
	m := NewShareManager(store)
	userID := uuid.New()

	if err := m.SetCustomSlug(context.Background(), userID, "my-portfolio"); err != nil {
		t.Fatalf("SetCustomSlug() error = %v, want claim on the raced row", err)
	}
	if got := store.byUser[userID].ShareID; got != "my-portfolio" {
		t.Errorf("stored slug = %q, want %q", got, "my-portfolio")
	}
}

func TestSetCustomSlug(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	ctx := context.Background()

	t.Run("invalid candidate", func(t *testing.T) {
		store := newFakeShareStore()
		m := NewShareManager(store)

		err := m.SetCustomSlug(ctx, userID, "ab")
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("SetCustomSlug(%q) error = %v, want ValidationError", "ab", err)
		}
		if store.callCount() != 0 {
			t.Errorf("gateway called %d times for invalid input, want 0", store.callCount())
		}
	})

	t.Run("creates share when none exists", func(t *testing.T) {
		store := newFakeShareStore()
		m := NewShareManager(store)

		if err := m.SetCustomSlug(ctx, userID, "My-Portfolio"); err != nil {
			t.Fatalf("SetCustomSlug() error = %v", err)
		}
		if got := store.byUser[userID].ShareID; got != "my-portfolio" {
			t.Errorf("stored slug = %q, want %q", got, "my-portfolio")
		}
	})

	t.Run("taken by another user", func(t *testing.T) {
		store := newFakeShareStore()
		store.byUser[otherID] = &models.Share{ID: uuid.New(), UserID: otherID, ShareID: "claimed", Active: true}
		m := NewShareManager(store)

		if err := m.SetCustomSlug(ctx, userID, "claimed"); !errors.Is(err, ErrSlugTaken) {
			t.Errorf("SetCustomSlug() error = %v, want ErrSlugTaken", err)
		}
	})

	t.Run("write-time race surfaces as taken", func(t *testing.T) {
		store := newFakeShareStore()
		store.failWrites = 1 // lost the race after a clean pre-check
		m := NewShareManager(store)

		if err := m.SetCustomSlug(ctx, userID, "contested"); !errors.Is(err, ErrSlugTaken) {
			t.Errorf("SetCustomSlug() error = %v, want ErrSlugTaken", err)
		}
	})

	t.Run("unchanged slug is a no-op", func(t *testing.T) {
		store := newFakeShareStore()
		store.byUser[userID] = &models.Share{ID: uuid.New(), UserID: userID, ShareID: "same-slug", Active: true}
		m := NewShareManager(store)

		if err := m.SetCustomSlug(ctx, userID, "Same-Slug"); err != nil {
			t.Fatalf("SetCustomSlug() error = %v", err)
		}
		if store.byUser[userID].ShareID != "same-slug" {
			t.Error("unchanged slug was rewritten")
		}
	})
}

func TestResolveShareMalformedSkipsGateway(t *testing.T) {
	store := newFakeShareStore()
	m := NewShareManager(store)
	ctx := context.Background()

	for _, token := range []string{"ab", "has spaces!", "", "UPPER", "'; DROP TABLE--"} {
		t.Run(fmt.Sprintf("token %q", token), func(t *testing.T) {
			if _, err := m.ResolveShare(ctx, token); !errors.Is(err, ErrNotFound) {
				t.Errorf("ResolveShare(%q) error = %v, want ErrNotFound", token, err)
			}
		})
	}

	if store.callCount() != 0 {
		t.Errorf("gateway called %d times for malformed tokens, want 0", store.callCount())
	}
}

func TestResolveShare(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	store := newFakeShareStore()
	store.byUser[userID] = &models.Share{ID: uuid.New(), UserID: userID, ShareID: "live-token", Active: true}
	m := NewShareManager(store)

	owner, err := m.ResolveShare(ctx, "live-token")
	if err != nil {
		t.Fatalf("ResolveShare() error = %v", err)
	}
	if owner != userID {
		t.Errorf("ResolveShare() owner = %v, want %v", owner, userID)
	}

	// Deactivated tokens resolve exactly like unknown ones.
	store.byUser[userID].Active = false
	if _, err := m.ResolveShare(ctx, "live-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveShare() on inactive share error = %v, want ErrNotFound", err)
	}
}

func TestToggleActive(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	store := newFakeShareStore()
	store.byUser[userID] = &models.Share{ID: uuid.New(), UserID: userID, ShareID: "toggle-me", Active: true}
	m := NewShareManager(store)

	if err := m.ToggleActive(ctx, userID, false); err != nil {
		t.Fatalf("ToggleActive(false) error = %v", err)
	}
	if store.byUser[userID].Active {
		t.Error("share still active after hide")
	}
	if store.byUser[userID].ShareID != "toggle-me" {
		t.Error("token changed by toggle")
	}

	if err := m.ToggleActive(ctx, userID, true); err != nil {
		t.Fatalf("ToggleActive(true) error = %v", err)
	}
	if !store.byUser[userID].Active {
		t.Error("share not restored")
	}

	if err := m.ToggleActive(ctx, uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleActive() without share error = %v, want ErrNotFound", err)
	}
}

func TestCheckSlugAvailability(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	ctx := context.Background()

	store := newFakeShareStore()
	store.byUser[userID] = &models.Share{ID: uuid.New(), UserID: userID, ShareID: "mine", Active: true}
	store.byUser[otherID] = &models.Share{ID: uuid.New(), UserID: otherID, ShareID: "theirs", Active: true}
	m := NewShareManager(store)

	tests := []struct {
		candidate string
		want      string
	}{
		{"x", AvailabilityInvalid},
		{"admin", AvailabilityInvalid},
		{"mine", AvailabilityCurrent},
		{"theirs", AvailabilityTaken},
		{"fresh-slug", AvailabilityAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			got, err := m.CheckSlugAvailability(ctx, userID, tt.candidate)
			if err != nil {
				t.Fatalf("CheckSlugAvailability(%q) error = %v", tt.candidate, err)
			}
			if got != tt.want {
				t.Errorf("CheckSlugAvailability(%q) = %q, want %q", tt.candidate, got, tt.want)
			}
		})
	}
}
