// Package clock provides the monotonic time source and identifier
// generators shared by the session store and conversation engine. Isolating
// these behind an interface keeps FSM and TTL tests deterministic.
package clock

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts timekeeping so tests can control session TTL expiry
// without sleeping real wall-clock time.
type Clock interface {
	Now() time.Time
}

// System is the production Clock backed by time.Now().
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed is a Clock that always returns the same instant until advanced.
// Used by tests that need to cross a TTL boundary deterministically.
type Fixed struct {
	t time.Time
}

// NewFixed builds a Fixed clock starting at t.
func NewFixed(t time.Time) *Fixed { return &Fixed{t: t} }

// Now returns the clock's current instant.
func (f *Fixed) Now() time.Time { return f.t }

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.t = f.t.Add(d) }

// NewSessionID returns a globally unique opaque session identifier.
func NewSessionID() string { return uuid.NewString() }

// NewIdempotencyToken returns an opaque token suitable for deduplicating
// client retries of the same logical turn.
func NewIdempotencyToken() string { return uuid.NewString() }
