package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authbridge/gateway/internal/auth"
	"github.com/authbridge/gateway/internal/config"
	"github.com/authbridge/gateway/internal/profiles"
	"github.com/authbridge/gateway/internal/remote"
	"github.com/authbridge/gateway/internal/sessions"
	"github.com/authbridge/gateway/pkg/logger"
	"github.com/authbridge/gateway/pkg/metrics"
	"github.com/authbridge/gateway/pkg/middleware"
)

// SignUpRequest is the signup submission body. Field presence is checked by
// the facade's validation, which reports per-field errors; the bind only
// rejects malformed JSON.
type SignUpRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Profession       string `json:"profession"`
	CustomProfession string `json:"customProfession"`
}

// SignInRequest is the credential login body.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg        *config.Config
	authSvc    *auth.Service
	gwSessions *sessions.Service
	profileSvc *profiles.Service
}

func NewAuthHandler(cfg *config.Config, a *auth.Service, gw *sessions.Service, p *profiles.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, authSvc: a, gwSessions: gw, profileSvc: p}
}

// Register routes under /auth and /profile
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/signup", h.SignUp)
	a.POST("/login", h.SignIn)
	a.POST("/logout", h.SignOut)
	a.POST("/recover", h.RequestPasswordReset)
	a.POST("/password", h.UpdatePassword)
	a.GET("/session", h.Session)

	p := rg.Group("/profile")
	p.GET("", h.GetProfile)
	p.PATCH("", h.UpdateProfile)
}

// writeAuthErr maps a facade failure onto the response. Validation failures
// carry per-field messages; remote rejections keep their upstream status.
func writeAuthErr(c *gin.Context, err error) {
	if ve, ok := auth.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": ve.Fields})
		return
	}
	if ae, ok := remote.AsAuthError(err); ok {
		status := ae.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": ae.Message, "code": ae.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// SignUp registers a new identity and eagerly stores its profile. Profile
// storage failure is reported as a warning on an otherwise successful
// response, never as a failure.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.authSvc.SignUp(c.Request.Context(), auth.SignUpInput{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Profession:       req.Profession,
		CustomProfession: req.CustomProfession,
	})
	if err != nil {
		metrics.SignUps.WithLabelValues("rejected").Inc()
		writeAuthErr(c, err)
		return
	}
	metrics.SignUps.WithLabelValues("ok").Inc()
	body := gin.H{"message": "Check your email for the confirmation link!", "identityId": res.Identity.ID.String()}
	if res.ProfileWarning != nil {
		body["warning"] = "Account created but user details storage failed. Please contact support."
	}
	c.JSON(http.StatusOK, body)
}

// SignIn exchanges credentials for a session and binds it to a gateway
// cookie.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.authSvc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.SignInAttempts.WithLabelValues("rejected").Inc()
		writeAuthErr(c, err)
		return
	}
	token, err := h.gwSessions.Issue(c.Request.Context(), sess, h.cfg.Session.TTL)
	if err != nil {
		logger.Errorf("failed to persist gateway session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	metrics.SignInAttempts.WithLabelValues("ok").Inc()
	h.setSessionCookie(c, token, int(h.cfg.Session.TTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"message": "Welcome back! Successfully logged in.", "identity": sess.Identity})
}

// SignOut revokes the remote session and drops the gateway record. The
// cookie is cleared even when remote revocation fails. A caller with no
// resolvable session is already signed out; no remote call is made.
func (h *AuthHandler) SignOut(c *gin.Context) {
	var accessToken string
	token, _ := c.Cookie(h.cfg.Session.CookieName)
	if token != "" {
		if sess, err := h.gwSessions.Resolve(c.Request.Context(), token); err == nil && sess != nil {
			accessToken = sess.AccessToken
		}
		_ = h.gwSessions.Drop(c.Request.Context(), token)
	}
	h.setSessionCookie(c, "", -1)

	if accessToken == "" {
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out!"})
		return
	}
	if err := h.authSvc.SignOut(c.Request.Context(), accessToken); err != nil {
		writeAuthErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out!"})
}

// RequestPasswordReset sends the recovery email.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authSvc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		writeAuthErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent! Check your inbox."})
}

// UpdatePassword changes the password on the active session. Reachable from
// the reset page, which is exempt from guarding; without a session the
// facade rejects with "no active session".
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var accessToken string
	if sess := middleware.SessionFrom(c); sess != nil {
		accessToken = sess.AccessToken
	}
	if err := h.authSvc.UpdatePassword(c.Request.Context(), accessToken, req.Password); err != nil {
		writeAuthErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully!"})
}

// Session reports the caller's session state.
func (h *AuthHandler) Session(c *gin.Context) {
	if middleware.SessionLookupFailed(c) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session lookup unavailable"})
		return
	}
	sess := middleware.SessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "identity": sess.Identity, "expiresAt": sess.ExpiresAt})
}

// GetProfile returns the caller's profile record.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	p, err := h.profileSvc.Get(c.Request.Context(), sess.Identity.ID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	var changes profiles.Changes
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.profileSvc.Update(c.Request.Context(), sess.Identity.ID, changes)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	secure := h.cfg.Server.Environment == "production"
	c.SetCookie(h.cfg.Session.CookieName, value, maxAge, "/", "", secure, true)
}
