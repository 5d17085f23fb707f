package session

import (
	"context"
	"sync"
	"time"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/clock"
	"github.com/ford-at-home/storygen-sub000/internal/observability"
)

// Mutator mutates a session in place; returning an error aborts the update
// (the session is left byte-identical to its pre-mutation snapshot).
type Mutator func(*Session) error

// Exporter durably persists a session snapshot outside the in-process map
// (spec §6: "Persisted state layout ... payload is the Session object
// serialized as a versioned structured document"). A nil Exporter means
// single-node, in-memory-only operation.
type Exporter interface {
	Export(ctx context.Context, s Session) error
}

// entry pairs a session with the lock that serializes all operations on it,
// grounded on the teacher's mutex-guarded chat_store_memory.go, generalized
// from one store-wide lock to one lock per session so concurrent sessions
// never contend with each other (spec §5: "concurrent requests for the same
// session are serialized through the per-session lock").
type entry struct {
	mu   sync.Mutex
	data Session
}

// Store is the in-memory Session Store. It is the single source of truth;
// an optional Exporter receives a best-effort durable copy after every
// successful create/update.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	clock    clock.Clock
	ttl      time.Duration
	exporter Exporter
}

// New constructs an empty Store with the given TTL and clock. exporter may
// be nil.
func New(ttl time.Duration, clk clock.Clock, exporter Exporter) *Store {
	if clk == nil {
		clk = clock.System{}
	}
	return &Store{
		sessions: make(map[string]*entry),
		clock:    clk,
		ttl:      ttl,
		exporter: exporter,
	}
}

// Create starts a new session in StageKickoff with an initial system turn,
// per spec §4.1.
func (s *Store) Create(ctx context.Context, coreIdea, userID string) (Session, error) {
	now := s.clock.Now()
	sess := Session{
		ID:          clock.NewSessionID(),
		UserID:      userID,
		Stage:       StageKickoff,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
		TTLDeadline: now.Add(s.ttl),
		Elements:    StoryElements{CoreIdea: coreIdea},
	}
	sess.AppendTurn(RoleSystem, "session started", now)

	if err := Validate(Session{}, sess); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = &entry{data: sess}
	s.mu.Unlock()

	s.export(ctx, sess)
	return sess, nil
}

// Get returns a snapshot of a session, marking and returning Expired if its
// TTL deadline has passed (spec §4.1: "fails with Expired if ttl_deadline
// has passed (and marks session expired as a side effect)").
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return Session{}, apperr.New(apperr.NotFound, "session not found")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.isExpired(e.data) {
		e.data.Status = StatusExpired
		snap := e.data.Clone()
		s.export(ctx, snap)
		return snap, apperr.New(apperr.Expired, "session ttl has elapsed")
	}
	return e.data.Clone(), nil
}

// Update atomically applies mutator under the session's lock, validates
// invariants on the result, and commits only if they hold; otherwise the
// session is left untouched and the invariant violation is returned
// (spec §4.1, §8).
func (s *Store) Update(ctx context.Context, id string, mutator Mutator) (Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return Session{}, apperr.New(apperr.NotFound, "session not found")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.isExpired(e.data) {
		e.data.Status = StatusExpired
		return Session{}, apperr.New(apperr.Expired, "session ttl has elapsed")
	}

	before := e.data.Clone()
	working := e.data.Clone()
	if err := mutator(&working); err != nil {
		return Session{}, err
	}
	if s.isExpired(e.data) {
		e.data.Status = StatusExpired
		return Session{}, apperr.New(apperr.Expired, "session ttl has elapsed")
	}

	now := s.clock.Now()
	working.UpdatedAt = now
	working.TTLDeadline = now.Add(s.ttl)

	if err := Validate(before, working); err != nil {
		return Session{}, err
	}

	e.data = working
	snap := working.Clone()
	s.export(ctx, snap)
	return snap, nil
}

// ListActive returns a snapshot of every session currently in StatusActive
// (and not past its TTL).
func (s *Store) ListActive(ctx context.Context) ([]Session, error) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if e.data.Status == StatusActive && !s.isExpired(e.data) {
			out = append(out, e.data.Clone())
		}
		e.mu.Unlock()
	}
	return out, nil
}

// Export returns the same snapshot Get would, for round-trip testing
// (spec §8: "export(id) followed by re-import ... yields an equivalent
// session").
func (s *Store) Export(ctx context.Context, id string) (Session, error) {
	return s.Get(ctx, id)
}

// Sweep marks every active session whose TTL has elapsed as expired,
// returning the count transitioned (spec §8 boundary: "TTL sweep on a
// session with ttl_deadline = now - epsilon marks it expired within one
// sweep interval").
func (s *Store) Sweep(ctx context.Context) int {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	swept := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.data.Status == StatusActive && s.isExpired(e.data) {
			e.data.Status = StatusExpired
			swept++
			snap := e.data.Clone()
			s.export(ctx, snap)
		}
		e.mu.Unlock()
	}
	return swept
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

func (s *Store) isExpired(sess Session) bool {
	return sess.Status == StatusExpired || s.clock.Now().After(sess.TTLDeadline)
}

func (s *Store) export(ctx context.Context, sess Session) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.Export(ctx, sess); err != nil {
		observability.LoggerWithTrace(ctx).Warn().Err(err).Str("session_id", sess.ID).Msg("session: durable export failed")
	}
}
