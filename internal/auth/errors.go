package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError rejects an operation locally, before any remote call.
// Fields maps input field name to a human-readable reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ProfileSyncError marks a profile write that failed without failing the
// authentication flow. It surfaces as a warning: the auth record exists but
// the application record does not, which is support-worthy.
type ProfileSyncError struct {
	IdentityID string
	Err        error
}

func (e *ProfileSyncError) Error() string {
	return fmt.Sprintf("profile sync failed for %s: %v", e.IdentityID, e.Err)
}

func (e *ProfileSyncError) Unwrap() error { return e.Err }
