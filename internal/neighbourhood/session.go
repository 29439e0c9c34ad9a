package neighbourhood

import (
	"context"
	"sync"

	"github.com/EmpoweredVote/police-explorer/internal/metrics"
	"github.com/google/uuid"
)

// Runner produces an Aggregate for a selection. *Aggregator implements it.
type Runner interface {
	Aggregate(ctx context.Context, forceID, neighbourhoodID string) (*Aggregate, error)
}

var _ Runner = (*Aggregator)(nil)

// Session tracks one user's selection. Starting a new aggregation cancels
// the one in flight, and only the latest selection's result is delivered:
// the superseded call gets ErrSuperseded even if its fetches completed.
type Session struct {
	runner Runner

	mu      sync.Mutex
	current uuid.UUID
	cancel  context.CancelFunc
}

// NewSession creates a Session backed by r.
func NewSession(r Runner) *Session {
	return &Session{runner: r}
}

// Aggregate runs a new selection, superseding any earlier one.
func (s *Session) Aggregate(ctx context.Context, forceID, neighbourhoodID string) (*Aggregate, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	id := uuid.New()
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.current, s.cancel = id, cancel
	s.mu.Unlock()

	agg, err := s.runner.Aggregate(ctx, forceID, neighbourhoodID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != id {
		metrics.SupersededTotal.Inc()
		return nil, ErrSuperseded
	}
	s.current, s.cancel = uuid.Nil, nil
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// Cancel abandons the in-flight selection, if any. Its caller receives
// ErrSuperseded.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.current, s.cancel = uuid.New(), nil
}

// Registry hands out one Session per client session ID. Entries live only
// while a call for that ID is in flight.
type Registry struct {
	runner Runner

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

type registryEntry struct {
	session *Session
	refs    int
}

// NewRegistry creates an empty Registry backed by r.
func NewRegistry(r Runner) *Registry {
	return &Registry{
		runner:   r,
		sessions: make(map[string]*registryEntry),
	}
}

// Aggregate runs a selection for sessionID. Calls sharing an ID supersede
// each other; an empty ID runs independently.
func (r *Registry) Aggregate(ctx context.Context, sessionID, forceID, neighbourhoodID string) (*Aggregate, error) {
	if sessionID == "" {
		return r.runner.Aggregate(ctx, forceID, neighbourhoodID)
	}

	r.mu.Lock()
	e, ok := r.sessions[sessionID]
	if !ok {
		e = &registryEntry{session: NewSession(r.runner)}
		r.sessions[sessionID] = e
	}
	e.refs++
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(r.sessions, sessionID)
		}
		r.mu.Unlock()
	}()

	return e.session.Aggregate(ctx, forceID, neighbourhoodID)
}

// Len reports how many sessions have calls in flight.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
