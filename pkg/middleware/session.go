package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/authbridge/gateway/internal/sessions"
)

const (
	sessionKey    = "session"
	sessionErrKey = "sessionErr"
)

// Resolver is the minimal interface the middleware depends on: token in,
// session (or nil) out. A non-nil error means the lookup itself failed.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*sessions.Session, error)
}

// SessionMiddleware reads the gateway session cookie and attaches the
// resolved session to the request context. Requests proceed in every case;
// handlers decide what an absent or unresolvable session means for them.
func SessionMiddleware(cookieName string, res Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		sess, err := res.Resolve(c.Request.Context(), token)
		if err != nil {
			// lookup failure is not "anonymous": record it so guards can
			// hold instead of redirecting
			c.Set(sessionErrKey, err)
			c.Next()
			return
		}
		if sess != nil && !sess.Expired() {
			c.Set(sessionKey, sess)
		}
		c.Next()
	}
}

// SessionFrom returns the resolved session on the context, or nil.
func SessionFrom(c *gin.Context) *sessions.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*sessions.Session)
	return s
}

// SessionLookupFailed reports whether session resolution failed for this
// request.
func SessionLookupFailed(c *gin.Context) bool {
	_, ok := c.Get(sessionErrKey)
	return ok
}
