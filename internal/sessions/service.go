package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Service wraps gateway session persistence with token issuance.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// Issue stores sess under a fresh opaque token and returns the token. The
// record's lifetime follows the session's expiry, with maxTTL as the cap and
// the fallback when the session carries no expiry.
func (s *Service) Issue(ctx context.Context, sess *Session, maxTTL time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	now := time.Now().UTC()
	expires := now.Add(maxTTL)
	if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.Before(expires) {
		expires = sess.ExpiresAt
	}
	rec := &Record{
		Token:     token,
		Session:   *sess,
		CreatedAt: now,
		ExpiresAt: expires,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the session behind token, or nil when the token is
// unknown or the session has lapsed. An error means the lookup itself
// failed and the caller cannot distinguish the two.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	rec, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		// cleanup lapsed record
		_ = s.repo.DeleteByToken(ctx, token)
		return nil, nil
	}
	sess := rec.Session
	return &sess, nil
}

// Drop removes the record behind token.
func (s *Service) Drop(ctx context.Context, token string) error {
	return s.repo.DeleteByToken(ctx, token)
}
