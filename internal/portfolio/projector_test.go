package portfolio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"folio/internal/db"
	"folio/internal/models"
)

type fakeTreeStore struct {
	mu       sync.Mutex
	profile  *models.Profile
	sections []models.Section
	treeErr  error
	eventErr error
	events   []models.ViewEvent
}

func (f *fakeTreeStore) GetPortfolioTree(_ context.Context, _ uuid.UUID) (*models.Profile, []models.Section, error) {
	if f.treeErr != nil {
		return nil, nil, f.treeErr
	}
	return f.profile, f.sections, nil
}

func (f *fakeTreeStore) InsertViewEvent(_ context.Context, e *models.ViewEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.eventErr != nil {
		return f.eventErr
	}
	f.events = append(f.events, *e)
	return nil
}

func newProjectorFixture(t *testing.T, profile *models.Profile, sections []models.Section) (*Projector, *fakeTreeStore) {
	t.Helper()
	userID := profile.ID
	shares := newFakeShareStore()
	shares.byUser[userID] = &models.Share{ID: uuid.New(), UserID: userID, ShareID: "public-token", Active: true}
	tree := &fakeTreeStore{profile: profile, sections: sections}
	return NewProjector(NewShareManager(shares), tree), tree
}

func TestProjectorResolveSanitizes(t *testing.T) {
	userID := uuid.New()
	profile := &models.Profile{
		ID:        userID,
		Name:      `Ada <script>alert("x")</script>`,
		Email:     "ada@example.com",
		Telephone: "+1 555 0100",
		RoleTitle: "Engineer & Tinkerer",
		Photo:     "javascript:alert(1)",
		ShowEmail: true,
		ShowPhone: false,
	}
	sections := []models.Section{{
		ID:     uuid.New(),
		UserID: userID,
		Title:  "<b>Projects</b>",
		Projects: []models.Project{{
			ID:    uuid.New(),
			Title: "Compiler",
			Links: []models.ProjectLink{
				{ID: uuid.New(), Title: "Demo", URL: "example.com"},
				{ID: uuid.New(), Title: "Bad", URL: "javascript:alert(1)"},
			},
		}},
	}}

	p, tree := newProjectorFixture(t, profile, sections)

	pub, err := p.Resolve(context.Background(), "public-token", "https://ref.example", "test-agent")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if strings.Contains(pub.Profile.Name, "<script>") {
		t.Errorf("name not escaped: %q", pub.Profile.Name)
	}
	if pub.Profile.Role != "Engineer &amp; Tinkerer" {
		t.Errorf("role = %q, want escaped ampersand", pub.Profile.Role)
	}
	if pub.Profile.Photo != "" {
		t.Errorf("javascript photo survived: %q", pub.Profile.Photo)
	}
	if pub.Profile.Email != "ada@example.com" {
		t.Errorf("email = %q, want shown (show_email=true)", pub.Profile.Email)
	}
	if pub.Profile.Telephone != "" {
		t.Errorf("telephone = %q, want hidden (show_phone=false)", pub.Profile.Telephone)
	}

	if got := pub.Sections[0].Title; strings.ContainsAny(got, "<>") {
		t.Errorf("section title not escaped: %q", got)
	}
	links := pub.Sections[0].Projects[0].Links
	if links[0].URL != "https://example.com/" {
		t.Errorf("bare-host URL = %q, want coerced https form", links[0].URL)
	}
	if links[1].URL != "" {
		t.Errorf("javascript link survived: %q", links[1].URL)
	}

	// Source data must not be mutated by sanitization.
	if sections[0].Title != "<b>Projects</b>" {
		t.Error("Resolve() mutated the stored section")
	}

	if len(tree.events) != 1 {
		t.Fatalf("recorded %d view events, want 1", len(tree.events))
	}
	if e := tree.events[0]; e.ShareID != "public-token" || e.Referrer != "https://ref.example" || e.UserAgent != "test-agent" {
		t.Errorf("view event = %+v", e)
	}
}

func TestProjectorResolveInactiveToken(t *testing.T) {
	userID := uuid.New()
	profile := &models.Profile{ID: userID, Name: "Ada"}
	p, tree := newProjectorFixture(t, profile, nil)

	// Deactivate the share: the view and the analytics row both disappear.
	shareStore := p.shares.gw.(*fakeShareStore)
	shareStore.byUser[userID].Active = false

	if _, err := p.Resolve(context.Background(), "public-token", "", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrNotFound", err)
	}
	if len(tree.events) != 0 {
		t.Errorf("recorded %d view events for a hidden share, want 0", len(tree.events))
	}
}

func TestProjectorResolveMissingProfile(t *testing.T) {
	userID := uuid.New()
	profile := &models.Profile{ID: userID}
	p, tree := newProjectorFixture(t, profile, nil)
	tree.treeErr = db.ErrProfileNotFound

	if _, err := p.Resolve(context.Background(), "public-token", "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestProjectorViewSurvivesAnalyticsFailure(t *testing.T) {
	userID := uuid.New()
	profile := &models.Profile{ID: userID, Name: "Ada"}
	p, tree := newProjectorFixture(t, profile, nil)
	tree.eventErr = errors.New("analytics store down")

	pub, err := p.Resolve(context.Background(), "public-token", "", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v, want view despite analytics failure", err)
	}
	if pub.Profile.Name != "Ada" {
		t.Errorf("profile name = %q", pub.Profile.Name)
	}
}
