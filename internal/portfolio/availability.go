package portfolio

import (
	"context"
	"sync"
	"time"

	"folio/internal/validation"
)

// Availability statuses for slug candidates.
const (
	AvailabilityInvalid   = "invalid"
	AvailabilityCurrent   = "current"
	AvailabilityAvailable = "available"
	AvailabilityTaken     = "taken"
	AvailabilityUnknown   = "unknown"
)

// DefaultDebounce is how long input must stay stable before a store check fires.
const DefaultDebounce = 500 * time.Millisecond

// CheckFunc asks the backing store whether a slug is already held.
type CheckFunc func(ctx context.Context, slug string) (bool, error)

// SlugChecker debounces per-keystroke availability checks. A pending check
// is invalidated whenever new input arrives inside the debounce window, so
// at most one in-flight check reflects the latest input. Candidates that
// fail local validation, or equal the currently-saved slug, short-circuit
// without touching the store.
//
// The dashboard runs this debounce in the browser (static/dashboard.js)
// against the one-shot ShareManager.CheckSlugAvailability endpoint;
// SlugChecker is the server-side form of the same contract, for frontends
// that stream keystrokes over a held connection.
type SlugChecker struct {
	check    CheckFunc
	delay    time.Duration
	onResult func(slug, status string)

	mu        sync.Mutex
	current   string
	lastInput string
	pending   *time.Timer
}

// NewSlugChecker creates a checker that reports each outcome via onResult.
func NewSlugChecker(check CheckFunc, delay time.Duration, onResult func(slug, status string)) *SlugChecker {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &SlugChecker{check: check, delay: delay, onResult: onResult}
}

// SetCurrent records the currently-saved slug, which is never re-checked.
func (c *SlugChecker) SetCurrent(slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = validation.NormalizeSlug(slug)
}

// Input feeds one keystroke's worth of candidate text. Any pending check is
// cancelled; a new one is scheduled only for a valid, changed candidate.
func (c *SlugChecker) Input(candidate string) {
	slug := validation.NormalizeSlug(candidate)

	c.mu.Lock()
	defer c.mu.Unlock()

	if slug == c.lastInput {
		return
	}
	c.lastInput = slug
	c.cancelPendingLocked()

	if ok, _ := validation.ValidateSlug(slug); !ok {
		c.onResult(slug, AvailabilityInvalid)
		return
	}
	if slug == c.current {
		c.onResult(slug, AvailabilityCurrent)
		return
	}

	c.pending = time.AfterFunc(c.delay, func() { c.run(slug) })
}

// Stop cancels any pending check.
func (c *SlugChecker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
}

func (c *SlugChecker) cancelPendingLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *SlugChecker) run(slug string) {
	// The timer may race a newer keystroke; only the latest input counts.
	c.mu.Lock()
	if slug != c.lastInput {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.mu.Unlock()

	taken, err := c.check(context.Background(), slug)
	switch {
	case err != nil:
		c.onResult(slug, AvailabilityUnknown)
	case taken:
		c.onResult(slug, AvailabilityTaken)
	default:
		c.onResult(slug, AvailabilityAvailable)
	}
}
