package routeguard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/authbridge/gateway/internal/sessions"
)

func TestDecideTable(t *testing.T) {
	cases := []struct {
		state    State
		path     string
		redirect string
	}{
		// loading never redirects, whatever the path
		{StateLoading, "/", ""},
		{StateLoading, "/dashboard", ""},
		{StateLoading, "/login", ""},
		{StateLoading, "/no-such-page", ""},

		// home fans out by state
		{StateAuthenticated, "/", "/dashboard"},
		{StateAnonymous, "/", "/login"},

		// protected
		{StateAuthenticated, "/dashboard", ""},
		{StateAnonymous, "/dashboard", "/login"},

		// auth pages bounce signed-in users to the landing page
		{StateAuthenticated, "/login", "/dashboard"},
		{StateAuthenticated, "/signup", "/dashboard"},
		{StateAuthenticated, "/forgot-password", "/dashboard"},
		{StateAnonymous, "/login", ""},
		{StateAnonymous, "/signup", ""},
		{StateAnonymous, "/forgot-password", ""},

		// the reset pages render in every state: the email link must work
		// for users without a live session and for signed-in users alike
		{StateAuthenticated, "/reset-password", ""},
		{StateAnonymous, "/reset-password", ""},
		{StateAuthenticated, "/reset-pw", ""},
		{StateAnonymous, "/reset-pw", ""},

		// unknown routes collapse onto home
		{StateAuthenticated, "/no-such-page", "/"},
		{StateAnonymous, "/no-such-page", "/"},
		{StateAnonymous, "/dashboard/sub", "/"},
	}
	for _, tc := range cases {
		d := Decide(tc.state, tc.path)
		assert.Equal(t, tc.redirect, d.Redirect, "%s %s", tc.state, tc.path)
		assert.Equal(t, tc.redirect == "", d.Allowed(), "%s %s", tc.state, tc.path)
	}
}

func TestResolve(t *testing.T) {
	live := &sessions.Session{ExpiresAt: time.Now().Add(time.Hour)}
	stale := &sessions.Session{ExpiresAt: time.Now().Add(-time.Minute)}

	assert.Equal(t, StateLoading, Resolve(true, nil))
	assert.Equal(t, StateLoading, Resolve(true, live), "loading wins over a known session")
	assert.Equal(t, StateAuthenticated, Resolve(false, live))
	assert.Equal(t, StateAnonymous, Resolve(false, nil))
	assert.Equal(t, StateAnonymous, Resolve(false, stale), "expired sessions are anonymous")
}

func TestStateOfFollowsStore(t *testing.T) {
	stream := sessions.NewStream()
	store := sessions.NewStore(stream)
	defer store.Close()

	assert.Equal(t, StateLoading, StateOf(store))

	stream.Publish(sessions.Event{Type: sessions.EventInitialSession, Session: nil})
	assert.Equal(t, StateAnonymous, StateOf(store))

	stream.Publish(sessions.Event{Type: sessions.EventSignedIn, Session: &sessions.Session{}})
	assert.Equal(t, StateAuthenticated, StateOf(store))

	stream.Publish(sessions.Event{Type: sessions.EventSignedOut})
	assert.Equal(t, StateAnonymous, StateOf(store))
}

func TestKnown(t *testing.T) {
	for _, p := range []string{"/", "/login", "/signup", "/forgot-password", "/reset-password", "/reset-pw", "/dashboard"} {
		assert.True(t, Known(p), p)
	}
	assert.False(t, Known("/no-such-page"))
	assert.False(t, Known("/login/"))
}
