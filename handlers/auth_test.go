package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authbridge/gateway/internal/auth"
	"github.com/authbridge/gateway/internal/config"
	"github.com/authbridge/gateway/internal/profiles"
	"github.com/authbridge/gateway/internal/remote"
	"github.com/authbridge/gateway/internal/sessions"
	"github.com/authbridge/gateway/pkg/middleware"
)

const testIdentityID = "3f2b6c1a-5d4e-4f6a-8b9c-0d1e2f3a4b5c"

type env struct {
	router *gin.Engine
	repo   *profiles.MemoryRepository
	remote *httptest.Server
}

// fakeRemote answers the auth API endpoints the handlers exercise.
func fakeRemote() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string                 `json:"email"`
			Data  map[string]interface{} `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": testIdentityID, "email": body.Email, "user_metadata": body.Data,
		})
	})
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "Secret1!" {
			w.WriteHeader(400)
			_, _ = w.Write([]byte(`{"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "opaque-access-token",
			"refresh_token": "rt",
			"expires_in":    3600,
			"user": map[string]interface{}{
				"id":    testIdentityID,
				"email": body["email"],
				"user_metadata": map[string]interface{}{
					"first_name": "A", "last_name": "B", "profession": "Student",
				},
			},
		})
	})
	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer opaque-access-token" {
			w.WriteHeader(401)
			_, _ = w.Write([]byte(`{"error_code":"invalid_token","msg":"invalid token"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/auth/v1/recover", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{}`))
	})
	return httptest.NewServer(mux)
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := fakeRemote()
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Session.CookieName = "gw_session"
	cfg.Session.TTL = time.Hour

	rc := remote.New(srv.URL, "anon-key", 5*time.Second)
	stream := sessions.NewStream()
	repo := profiles.NewMemoryRepository()
	authSvc := auth.NewService(rc, repo, stream, func() string { return "http://localhost:3000" })
	gwSessions := sessions.NewService(sessions.NewMemoryRepository())
	profileSvc := profiles.NewService(repo)

	r := gin.New()
	r.Use(middleware.SessionMiddleware(cfg.Session.CookieName, gwSessions))
	NewAuthHandler(cfg, authSvc, gwSessions, profileSvc).Register(&r.RouterGroup)
	NewPageHandler().Register(r)

	return &env{router: r, repo: repo, remote: srv}
}

func (e *env) do(method, path, body, cookie string) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	} else {
		rdr = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "gw_session", Value: cookie})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login performs a successful credential login and returns the session cookie.
func (e *env) login(t *testing.T) string {
	t.Helper()
	w := e.do(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"Secret1!"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == "gw_session" && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("login response carried no session cookie")
	return ""
}

func TestSignInSetsSessionCookie(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t)
	assert.NotEmpty(t, cookie)

	w := e.do(http.MethodGet, "/auth/session", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["authenticated"])
}

func TestSignInRejectionKeepsUpstreamStatus(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong-pass"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid login credentials")
}

func TestSignUpReportsProfileOutcome(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"Secret1!","firstName":"A","lastName":"B","profession":"Student"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Check your email")
	assert.NotContains(t, w.Body.String(), "warning")
}

func TestSignUpValidationFields(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"123","firstName":"A","lastName":"B","profession":"Other"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "password")
	assert.Contains(t, body.Fields, "customProfession")
}

func TestSignUpMissingFieldsReturnFieldMap(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/auth/signup", `{"password":"Secret1!","firstName":"A","lastName":"B","profession":"Student"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "email")

	w = e.do(http.MethodPost, "/auth/login", `{}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")
}

func TestGuardedPages(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t)

	cases := []struct {
		name     string
		path     string
		cookie   string
		status   int
		location string
	}{
		{"anonymous dashboard", "/dashboard", "", http.StatusFound, "/login"},
		{"anonymous home", "/", "", http.StatusFound, "/login"},
		{"anonymous login", "/login", "", http.StatusOK, ""},
		{"anonymous reset-pw", "/reset-pw", "", http.StatusOK, ""},
		{"authed dashboard", "/dashboard", cookie, http.StatusOK, ""},
		{"authed home", "/", cookie, http.StatusFound, "/dashboard"},
		{"authed login", "/login", cookie, http.StatusFound, "/dashboard"},
		{"authed signup", "/signup", cookie, http.StatusFound, "/dashboard"},
		{"authed reset-pw", "/reset-pw", cookie, http.StatusOK, ""},
		{"anonymous unknown", "/no-such-page", "", http.StatusFound, "/"},
		{"authed unknown", "/no-such-page", cookie, http.StatusFound, "/"},
	}
	for _, tc := range cases {
		w := e.do(http.MethodGet, tc.path, "", tc.cookie)
		assert.Equal(t, tc.status, w.Code, tc.name)
		assert.Equal(t, tc.location, w.Header().Get("Location"), tc.name)
	}
}

func TestSignOutClearsSession(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t)

	w := e.do(http.MethodPost, "/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "gw_session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout must clear the session cookie")

	w = e.do(http.MethodGet, "/dashboard", "", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSignOutWithoutSessionStillSucceeds(t *testing.T) {
	e := newEnv(t)

	// no cookie at all: logged out without consulting the remote
	w := e.do(http.MethodPost, "/auth/logout", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Successfully logged out")

	// a stale cookie that resolves to nothing behaves the same
	w = e.do(http.MethodPost, "/auth/logout", "", "stale-token")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMethodMismatchFallsBackToHome(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t)

	// /dashboard only registers GET; other methods land on the catch-all,
	// which sends allowed-but-unrenderable requests home
	w := e.do(http.MethodPost, "/dashboard", "", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestProfileRoundTrip(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"Secret1!","firstName":"A","lastName":"B","profession":"Student"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookie := e.login(t)

	w = e.do(http.MethodGet, "/profile", "", cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"first_name":"A"`)
	assert.Contains(t, w.Body.String(), `"profession":"Student"`)

	w = e.do(http.MethodPatch, "/profile", `{"first_name":"Anna"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"first_name":"Anna"`)

	w = e.do(http.MethodGet, "/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) (*sessions.Session, error) {
	return nil, errors.New("session store unreachable")
}

func TestLookupFailureHoldsInsteadOfRedirecting(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Session.CookieName = "gw_session"

	r := gin.New()
	r.Use(middleware.SessionMiddleware(cfg.Session.CookieName, failingResolver{}))
	NewAuthHandler(cfg, nil, nil, nil).Register(&r.RouterGroup)
	NewPageHandler().Register(r)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "gw_session", Value: "sometoken"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Loading...", w.Body.String())
	assert.Empty(t, w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: "gw_session", Value: "sometoken"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
