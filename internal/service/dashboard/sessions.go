package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/render"
)

// ApplyState is where a session is in the apply cycle.
type ApplyState string

const (
	StateIdle      ApplyState = "idle"
	StateFiltering ApplyState = "filtering"
	StateRendered  ApplyState = "rendered"
	StateEmpty     ApplyState = "empty"
)

type session struct {
	generation uint64
	cancel     context.CancelFunc
	state      ApplyState
	applied    domain.FilterState
	last       *render.Bundle
	lastSeen   time.Time
}

// Sessions keeps at most one apply in flight per session. Starting a new apply cancels
// the previous one and the older result is dropped when it finishes.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	idleTTL  time.Duration
	now      func() time.Time
}

func NewSessions(idleTTL time.Duration) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// begin registers a new apply for id and returns its context and generation.
func (s *Sessions) begin(parent context.Context, id string) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{state: StateIdle}
		s.sessions[id] = sess
	}
	if sess.cancel != nil {
		sess.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	sess.generation++
	sess.cancel = cancel
	sess.state = StateFiltering
	sess.lastSeen = now
	return ctx, sess.generation
}

// finish stores the result if generation is still the latest and reports whether it was.
func (s *Sessions) finish(id string, generation uint64, applied domain.FilterState, bundle *render.Bundle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.generation != generation {
		return false
	}
	sess.cancel()
	sess.cancel = nil
	sess.applied = applied
	sess.last = bundle
	sess.lastSeen = s.now()
	if bundle.State == render.StateRendered {
		sess.state = StateRendered
	} else {
		sess.state = StateEmpty
	}
	return true
}

// abort releases a failed apply; a later apply of the same session is unaffected.
func (s *Sessions) abort(id string, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.generation != generation {
		return
	}
	sess.cancel()
	sess.cancel = nil
	if sess.last == nil {
		sess.state = StateIdle
	} else if sess.last.State == render.StateRendered {
		sess.state = StateRendered
	} else {
		sess.state = StateEmpty
	}
}

// State returns the session's apply state; unknown sessions are idle.
func (s *Sessions) State(id string) ApplyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.state
	}
	return StateIdle
}

// Last returns the bundle and filter of the latest completed apply.
func (s *Sessions) Last(id string) (*render.Bundle, domain.FilterState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.last == nil {
		return nil, domain.FilterState{}, false
	}
	sess.lastSeen = s.now()
	return sess.last, sess.applied, true
}

func (s *Sessions) pruneLocked(now time.Time) {
	if s.idleTTL <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if sess.cancel == nil && now.Sub(sess.lastSeen) > s.idleTTL {
			delete(s.sessions, id)
		}
	}
}
