package sessions

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Metadata is the validated subset of identity metadata the application
// consumes. Empty string means the field was absent upstream.
type Metadata struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Profession string `json:"profession"`
	FullName   string `json:"full_name"`
}

// HasName reports whether both name parts are present, the precondition for
// creating a profile from metadata alone.
func (m Metadata) HasName() bool {
	return m.FirstName != "" && m.LastName != ""
}

// Identity is an immutable snapshot of the remote authentication record.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Metadata Metadata  `json:"metadata"`
}

// Session is proof of an active authentication, held by the store and
// replaced wholesale on every change event.
type Session struct {
	Identity     Identity  `json:"identity"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the session's expiry has passed. A zero expiry is
// treated as non-expiring (the remote did not communicate one).
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().UTC().After(s.ExpiresAt)
}

// NewIdentity normalizes a raw identity from the remote boundary. The id
// must be a UUID; metadata fields are extracted defensively and anything
// non-string is dropped.
func NewIdentity(id, email string, raw map[string]interface{}) (Identity, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return Identity{}, fmt.Errorf("invalid identity id %q: %w", id, err)
	}
	return Identity{
		ID:    uid,
		Email: email,
		Metadata: Metadata{
			FirstName:  stringField(raw, "first_name"),
			LastName:   stringField(raw, "last_name"),
			Profession: stringField(raw, "profession"),
			FullName:   stringField(raw, "full_name"),
		},
	}, nil
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return v
}
