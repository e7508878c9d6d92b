package sessions

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the claims subset read from an access token. The token is
// parsed without signature verification: the remote service is the verifier
// of record, this side only needs expiry and subject for bookkeeping.
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// ParseAccessToken extracts bookkeeping claims from a raw JWT.
func ParseAccessToken(raw string) (*TokenClaims, error) {
	var claims jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	tc := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		tc.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		tc.Email = email
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("access token carries no exp claim")
	}
	tc.ExpiresAt = exp.Time.UTC()
	return tc, nil
}
