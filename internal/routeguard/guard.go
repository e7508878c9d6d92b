package routeguard

import "github.com/authbridge/gateway/internal/sessions"

// State is the guard's view of the session store. The machine starts in
// StateLoading and resolves once, to Authenticated or Anonymous; it never
// re-enters Loading afterwards.
type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	}
	return "anonymous"
}

// StateOf derives the guard state from a session store.
func StateOf(store *sessions.Store) State {
	if store.IsLoading() {
		return StateLoading
	}
	if store.Session() != nil {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Resolve derives the guard state from a directly-known session value.
// Transport glue that could not determine the session at all should use
// StateLoading, which never redirects.
func Resolve(loading bool, sess *sessions.Session) State {
	if loading {
		return StateLoading
	}
	if sess != nil && !sess.Expired() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Route landing points.
const (
	SignInPath  = "/login"
	LandingPath = "/dashboard"
	HomePath    = "/"
)

// Decision is the guard's verdict for one navigation. An empty Redirect
// means render in place.
type Decision struct {
	Redirect string
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

var (
	// protected paths require an authenticated session
	protectedPaths = map[string]bool{
		LandingPath: true,
	}
	// authOnly paths are for anonymous users; authenticated users are
	// bounced to the landing page
	authOnlyPaths = map[string]bool{
		SignInPath:         true,
		"/signup":          true,
		"/forgot-password": true,
	}
	// exempt paths are reachable in any state: the password-reset link
	// arrives by email and may be opened without a live session
	exemptPaths = map[string]bool{
		"/reset-password": true,
		"/reset-pw":       true,
	}
	knownPaths = map[string]bool{
		HomePath: true,
	}
)

func init() {
	for _, m := range []map[string]bool{protectedPaths, authOnlyPaths, exemptPaths} {
		for p := range m {
			knownPaths[p] = true
		}
	}
}

// Known reports whether path is part of the guarded route surface.
func Known(path string) bool { return knownPaths[path] }

// Decide returns the guard's verdict for navigating to path in the given
// state. While loading, every path renders a placeholder and nothing
// redirects.
func Decide(state State, path string) Decision {
	if state == StateLoading {
		return Decision{}
	}
	if exemptPaths[path] {
		return Decision{}
	}
	if !knownPaths[path] {
		// unknown routes collapse onto home, which redirects again by state
		return Decision{Redirect: HomePath}
	}
	switch {
	case path == HomePath:
		if state == StateAuthenticated {
			return Decision{Redirect: LandingPath}
		}
		return Decision{Redirect: SignInPath}
	case protectedPaths[path]:
		if state != StateAuthenticated {
			return Decision{Redirect: SignInPath}
		}
	case authOnlyPaths[path]:
		if state == StateAuthenticated {
			return Decision{Redirect: LandingPath}
		}
	}
	return Decision{}
}
