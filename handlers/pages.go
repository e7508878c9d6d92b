package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authbridge/gateway/internal/routeguard"
	"github.com/authbridge/gateway/pkg/middleware"
)

// PageHandler serves the guarded page surface. Bodies are placeholders; the
// interesting part is the redirect behavior, which follows the guard's
// decision for the caller's session state.
type PageHandler struct{}

func NewPageHandler() *PageHandler { return &PageHandler{} }

var pageTitles = map[string]string{
	routeguard.HomePath:    "Home",
	routeguard.SignInPath:  "Sign In",
	"/signup":              "Create Account",
	"/forgot-password":     "Forgot Password",
	"/reset-password":      "Reset Password",
	"/reset-pw":            "Reset Password",
	routeguard.LandingPath: "Dashboard",
}

// Register wires every guarded path plus the catch-all.
func (h *PageHandler) Register(r *gin.Engine) {
	for path := range pageTitles {
		r.GET(path, h.page(path))
	}
	r.NoRoute(h.catchAll)
}

func guardState(c *gin.Context) routeguard.State {
	// a failed session lookup means the state is unknown; the guard holds
	return routeguard.Resolve(middleware.SessionLookupFailed(c), middleware.SessionFrom(c))
}

func (h *PageHandler) page(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := guardState(c)
		d := routeguard.Decide(state, path)
		if !d.Allowed() {
			c.Redirect(http.StatusFound, d.Redirect)
			return
		}
		if state == routeguard.StateLoading {
			c.String(http.StatusOK, "Loading...")
			return
		}
		c.String(http.StatusOK, pageTitles[path])
	}
}

// catchAll collapses unknown paths onto home, except while the state is
// unresolved.
func (h *PageHandler) catchAll(c *gin.Context) {
	state := guardState(c)
	if state == routeguard.StateLoading {
		c.String(http.StatusOK, "Loading...")
		return
	}
	d := routeguard.Decide(state, c.Request.URL.Path)
	if !d.Allowed() {
		c.Redirect(http.StatusFound, d.Redirect)
		return
	}
	c.Redirect(http.StatusFound, routeguard.HomePath)
}
