package sessions

import "sync"

// Store holds the current session, or none, and a loading flag that is
// resolved exactly once by the first observed event. It is the single source
// of truth for "is a user logged in": the only writer is the event stream it
// is bound to, everyone else reads through Session/IsLoading.
type Store struct {
	mu      sync.RWMutex
	session *Session
	loading bool
	closed  bool
	unbind  func()
}

// NewStore creates a store in the loading state, bound to the given stream.
// Close unbinds it; after Close no further events are applied.
func NewStore(stream *Stream) *Store {
	s := &Store{loading: true}
	s.unbind = stream.Subscribe(s.apply)
	return s
}

// Session returns the currently held session, or nil.
func (s *Store) Session() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// IsLoading reports whether the initial restore is still pending.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// apply replaces the held session with the event's value. The whole value is
// swapped, never mutated in place.
func (s *Store) apply(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.session = ev.Session
	s.loading = false
}

// Close unsubscribes from the stream and freezes the store. Idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unbind := s.unbind
	s.unbind = nil
	s.mu.Unlock()
	if unbind != nil {
		unbind()
	}
}
