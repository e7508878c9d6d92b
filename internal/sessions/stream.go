package sessions

import "sync"

// EventType identifies an auth state change.
type EventType string

const (
	// EventInitialSession is the first observation after restore, session or
	// not. It resolves the store's loading flag.
	EventInitialSession EventType = "INITIAL_SESSION"
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Event is one auth state change. Session is nil for sign-out and for an
// anonymous initial observation.
type Event struct {
	Type    EventType
	Session *Session
}

// Stream is the ordered auth change notification bus. Publish dispatches to
// every subscriber synchronously, in subscription order, and holds the
// dispatch lock for the whole fan-out: handling of one event always
// completes before the next event's handling begins.
type Stream struct {
	mu     sync.Mutex
	nextID int
	subs   []streamSub
}

type streamSub struct {
	id int
	fn func(Event)
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{}
}

// Subscribe registers fn and returns its unsubscribe handle. Unsubscribing
// twice is harmless.
func (st *Stream) Subscribe(fn func(Event)) func() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.nextID++
	id := st.nextID
	st.subs = append(st.subs, streamSub{id: id, fn: fn})
	return func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		for i, s := range st.subs {
			if s.id == id {
				st.subs = append(st.subs[:i], st.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to all current subscribers.
func (st *Stream) Publish(ev Event) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, s := range st.subs {
		s.fn(ev)
	}
}
