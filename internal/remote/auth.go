package remote

import (
	"context"
	"net/http"
	"net/url"
)

// User is the raw identity record as the auth API returns it. Metadata keys
// are untrusted until normalized at the boundary.
type User struct {
	ID       string                 `json:"id"`
	Email    string                 `json:"email"`
	Metadata map[string]interface{} `json:"user_metadata"`
}

// TokenGrant is a successful credential grant.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// SignUpParams carries a signup request. RedirectTo is the URL the email
// confirmation link sends the user back to.
type SignUpParams struct {
	Email      string
	Password   string
	RedirectTo string
	Metadata   map[string]interface{}
}

type signUpBody struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// SignUp registers a new identity. When email confirmation is required the
// service returns the created user without a grant.
func (c *Client) SignUp(ctx context.Context, p SignUpParams) (*User, error) {
	path := "/auth/v1/signup"
	if p.RedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(p.RedirectTo)
	}
	var u User
	if err := c.do(ctx, http.MethodPost, path, nil, signUpBody{Email: p.Email, Password: p.Password, Data: p.Metadata}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignInWithPassword exchanges email+password for a token grant.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*TokenGrant, error) {
	body := map[string]string{"email": email, "password": password}
	var g TokenGrant
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", nil, body, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// SignOut revokes the session behind the given access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", bearer(accessToken), nil, nil)
}

// ResetPasswordForEmail sends a recovery email whose link redirects to
// redirectTo.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.do(ctx, http.MethodPost, path, nil, map[string]string{"email": email}, nil)
}

// UpdatePassword sets a new password on the session behind accessToken.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return c.do(ctx, http.MethodPut, "/auth/v1/user", bearer(accessToken), map[string]string{"password": newPassword}, nil)
}

// GetUser fetches the identity behind an access token. Used on session
// restore.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", bearer(accessToken), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
