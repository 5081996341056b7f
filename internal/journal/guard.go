package journal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrUnavailable is returned by Guarded.Record while writes are suspended
// after repeated failures.
var ErrUnavailable = errors.New("journal unavailable")

// BreakerState describes whether Guarded is passing writes through.
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"    // writes pass through
	BreakerOpen     BreakerState = "open"      // writes rejected until the cooldown ends
	BreakerHalfOpen BreakerState = "half-open" // one probe write allowed
)

// GuardConfig controls when Guarded suspends writes.
type GuardConfig struct {
	// Threshold is the number of consecutive write failures that suspends writes.
	// Default: 5
	Threshold int

	// Cooldown is how long writes stay suspended before a probe is allowed.
	// Default: 30s
	Cooldown time.Duration
}

type backend interface {
	Record(ctx context.Context, activity, email string, action Action, requestID string) (Event, error)
	History(ctx context.Context, activity string, limit int) ([]Event, error)
	Ping(ctx context.Context) error
}

// Guarded wraps a journal so that a failing database does not add latency
// to every signup. After Threshold consecutive write failures it rejects
// writes with ErrUnavailable for Cooldown, then lets a single probe through.
// Reads are never suspended.
type Guarded struct {
	inner backend
	cfg   GuardConfig

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool
	now      func() time.Time
}

// NewGuarded wraps inner. Zero config fields take their defaults.
func NewGuarded(inner backend, cfg GuardConfig) *Guarded {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Guarded{
		inner: inner,
		cfg:   cfg,
		state: BreakerClosed,
		now:   time.Now,
	}
}

// Record writes an event unless writes are suspended.
func (g *Guarded) Record(ctx context.Context, activity, email string, action Action, requestID string) (Event, error) {
	if !g.acquire() {
		return Event{}, ErrUnavailable
	}
	ev, err := g.inner.Record(ctx, activity, email, action, requestID)
	g.release(err)
	return ev, err
}

// History reads from the wrapped journal.
func (g *Guarded) History(ctx context.Context, activity string, limit int) ([]Event, error) {
	return g.inner.History(ctx, activity, limit)
}

// Ping checks the wrapped journal.
func (g *Guarded) Ping(ctx context.Context) error {
	return g.inner.Ping(ctx)
}

// State returns the current breaker state.
func (g *Guarded) State() BreakerState {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advanceLocked()
	return g.state
}

// advanceLocked moves an open breaker to half-open once the cooldown is over.
func (g *Guarded) advanceLocked() {
	if g.state == BreakerOpen && g.now().Sub(g.openedAt) >= g.cfg.Cooldown {
		g.state = BreakerHalfOpen
	}
}

func (g *Guarded) acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advanceLocked()

	switch g.state {
	case BreakerOpen:
		return false
	case BreakerHalfOpen:
		if g.probing {
			return false
		}
		g.probing = true
	}
	return true
}

func (g *Guarded) release(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	wasProbe := g.probing
	g.probing = false

	if err == nil {
		if g.state != BreakerClosed {
			log.Info().Msg("Enrollment journal recovered, resuming writes")
		}
		g.state = BreakerClosed
		g.failures = 0
		return
	}

	g.failures++
	if wasProbe || g.failures >= g.cfg.Threshold {
		if g.state != BreakerOpen {
			log.Warn().Err(err).
				Int("failures", g.failures).
				Dur("cooldown", g.cfg.Cooldown).
				Msg("Suspending enrollment journal writes")
		}
		g.state = BreakerOpen
		g.openedAt = g.now()
	}
}
