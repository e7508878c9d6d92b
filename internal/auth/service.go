package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/authbridge/gateway/internal/profiles"
	"github.com/authbridge/gateway/internal/remote"
	"github.com/authbridge/gateway/internal/sessions"
	"github.com/authbridge/gateway/pkg/logger"
)

// Service is the auth facade: every operation validates locally, calls the
// remote service, and on state-changing success publishes the change to the
// session stream. Session state is observed through the stream and the
// store, never returned as the primary result.
type Service struct {
	remote  *remote.Client
	pRepo   profiles.Repository
	stream  *sessions.Stream
	siteURL func() string
}

// NewService wires the facade. siteURL must return the resolved site base
// URL (scheme-prefixed, trailing slash allowed); it is consulted per call so
// request-origin fallback stays current.
func NewService(rc *remote.Client, pRepo profiles.Repository, stream *sessions.Stream, siteURL func() string) *Service {
	return &Service{remote: rc, pRepo: pRepo, stream: stream, siteURL: siteURL}
}

// callbackURL joins the resolved site URL with an absolute path.
func (s *Service) callbackURL(path string) string {
	return strings.TrimRight(s.siteURL(), "/") + path
}

// SignUpResult reports a successful signup. ProfileWarning is non-nil when
// the eager profile write failed: the identity exists and signup still
// succeeded, but the caller should surface the inconsistency.
type SignUpResult struct {
	Identity       sessions.Identity
	ProfileWarning *ProfileSyncError
}

// SignUp registers a new identity and eagerly creates its profile. The email
// confirmation link redirects to /login on the resolved site URL.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	if errs := validateSignUp(in); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	profession := in.FinalProfession()
	user, err := s.remote.SignUp(ctx, remote.SignUpParams{
		Email:      in.Email,
		Password:   in.Password,
		RedirectTo: s.callbackURL("/login"),
		Metadata: map[string]interface{}{
			"first_name": in.FirstName,
			"last_name":  in.LastName,
			"profession": profession,
			"full_name":  in.FirstName + " " + in.LastName,
		},
	})
	if err != nil {
		return nil, err
	}

	ident, err := sessions.NewIdentity(user.ID, user.Email, user.Metadata)
	if err != nil {
		// identity came back unusable; signup itself succeeded upstream
		logger.Errorf("signup returned malformed identity: %v", err)
		return nil, &remote.AuthError{Status: http.StatusBadGateway, Code: "bad_identity", Message: "remote returned a malformed identity"}
	}
	if ident.Email == "" {
		ident.Email = in.Email
	}

	res := &SignUpResult{Identity: ident}
	p := &profiles.Profile{
		ID:         ident.ID,
		Email:      in.Email,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Profession: profession,
	}
	if _, perr := s.pRepo.Create(ctx, p); perr != nil {
		// the signup must not be orphaned silently, but it does not fail
		logger.Warnf("profile creation failed during signup for %s: %v", ident.ID, perr)
		res.ProfileWarning = &ProfileSyncError{IdentityID: ident.ID.String(), Err: perr}
	}
	return res, nil
}

// SignIn exchanges credentials for a session and publishes the signed-in
// event (which drives the store update and profile reconciliation). The
// session is returned so transport glue can bind it to its own tracking.
func (s *Service) SignIn(ctx context.Context, email, password string) (*sessions.Session, error) {
	if errs := validateCredentials(email, password); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	grant, err := s.remote.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	sess, err := sessionFromGrant(grant)
	if err != nil {
		return nil, err
	}
	s.stream.Publish(sessions.Event{Type: sessions.EventSignedIn, Session: sess})
	return sess, nil
}

// SignOut revokes the remote session. The signed-out event is published even
// when the remote call fails: the local session is cleared regardless, the
// error only reports that upstream revocation may not have happened.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	err := s.remote.SignOut(ctx, accessToken)
	s.stream.Publish(sessions.Event{Type: sessions.EventSignedOut, Session: nil})
	return err
}

// RequestPasswordReset sends the recovery email. Its link redirects to
// /reset-pw, which is reachable without an active session.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Fields: map[string]string{"email": "email is required"}}
	}
	return s.remote.ResetPasswordForEmail(ctx, email, s.callbackURL("/reset-pw"))
}

// UpdatePassword sets a new password on the active session.
func (s *Service) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	if errs := validatePassword(newPassword); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	if accessToken == "" {
		return &remote.AuthError{Status: http.StatusUnauthorized, Code: "no_session", Message: "no active session"}
	}
	return s.remote.UpdatePassword(ctx, accessToken, newPassword)
}

// Restore publishes the initial session observation: the session behind the
// stored access token when one is supplied and still valid, otherwise an
// anonymous initial event. This resolves the store's loading state.
func (s *Service) Restore(ctx context.Context, accessToken string) (*sessions.Session, error) {
	if accessToken == "" {
		s.stream.Publish(sessions.Event{Type: sessions.EventInitialSession, Session: nil})
		return nil, nil
	}
	user, err := s.remote.GetUser(ctx, accessToken)
	if err != nil {
		s.stream.Publish(sessions.Event{Type: sessions.EventInitialSession, Session: nil})
		return nil, err
	}
	ident, err := sessions.NewIdentity(user.ID, user.Email, user.Metadata)
	if err != nil {
		s.stream.Publish(sessions.Event{Type: sessions.EventInitialSession, Session: nil})
		return nil, err
	}
	sess := &sessions.Session{Identity: ident, AccessToken: accessToken}
	if tc, err := sessions.ParseAccessToken(accessToken); err == nil {
		sess.ExpiresAt = tc.ExpiresAt
	}
	s.stream.Publish(sessions.Event{Type: sessions.EventInitialSession, Session: sess})
	return sess, nil
}

// sessionFromGrant normalizes a token grant into a session. Expiry comes
// from the token's exp claim, falling back to the grant's expires_in.
func sessionFromGrant(g *remote.TokenGrant) (*sessions.Session, error) {
	ident, err := sessions.NewIdentity(g.User.ID, g.User.Email, g.User.Metadata)
	if err != nil {
		return nil, err
	}
	sess := &sessions.Session{
		Identity:     ident,
		AccessToken:  g.AccessToken,
		RefreshToken: g.RefreshToken,
	}
	if tc, err := sessions.ParseAccessToken(g.AccessToken); err == nil {
		sess.ExpiresAt = tc.ExpiresAt
	} else if g.ExpiresIn > 0 {
		sess.ExpiresAt = time.Now().UTC().Add(time.Duration(g.ExpiresIn) * time.Second)
	}
	return sess, nil
}
