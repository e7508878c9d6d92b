package sessions

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestNewIdentityNormalizesMetadata(t *testing.T) {
	id := uuid.New().String()
	ident, err := NewIdentity(id, "a@x.com", map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"profession": "Student",
		"full_name":  "Ada Lovelace",
		"is_admin":   true, // non-string noise must be dropped
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident.ID.String() != id {
		t.Fatalf("id mismatch: %s != %s", ident.ID, id)
	}
	if ident.Metadata.FirstName != "Ada" || ident.Metadata.LastName != "Lovelace" {
		t.Fatalf("unexpected metadata: %+v", ident.Metadata)
	}
	if !ident.Metadata.HasName() {
		t.Fatalf("expected HasName for complete metadata")
	}
}

func TestNewIdentityMissingFields(t *testing.T) {
	ident, err := NewIdentity(uuid.New().String(), "a@x.com", nil)
	if err != nil {
		t.Fatalf("nil metadata must normalize: %v", err)
	}
	if ident.Metadata.FirstName != "" || ident.Metadata.Profession != "" {
		t.Fatalf("expected empty metadata fields, got %+v", ident.Metadata)
	}
	if ident.Metadata.HasName() {
		t.Fatalf("HasName must be false without both names")
	}

	if _, err := NewIdentity("not-a-uuid", "a@x.com", nil); err == nil {
		t.Fatalf("expected error for malformed id")
	}
}

func TestParseAccessToken(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "sub-1",
		"email": "a@x.com",
		"exp":   exp.Unix(),
	})
	raw, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tc, err := ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tc.Subject != "sub-1" || tc.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", tc)
	}
	if !tc.ExpiresAt.Equal(exp.UTC()) {
		t.Fatalf("exp mismatch: %v != %v", tc.ExpiresAt, exp.UTC())
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseAccessToken("definitely.not.a-jwt"); err == nil {
		t.Fatalf("expected parse error")
	}
	// a valid token without exp is rejected too
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "s"})
	raw, _ := tok.SignedString([]byte("k"))
	if _, err := ParseAccessToken(raw); err == nil {
		t.Fatalf("expected error for missing exp claim")
	}
}

func TestSessionExpired(t *testing.T) {
	s := &Session{}
	if s.Expired() {
		t.Fatalf("zero expiry must not count as expired")
	}
	s.ExpiresAt = time.Now().UTC().Add(-time.Second)
	if !s.Expired() {
		t.Fatalf("past expiry must count as expired")
	}
}
