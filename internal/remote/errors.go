package remote

import (
	"errors"
	"fmt"
)

// ErrNoRows is returned by record lookups that match nothing. Callers must
// treat it as "absent", not as a transport failure.
var ErrNoRows = errors.New("remote: no rows returned")

// pgrstNoRows is the remote row API's code for a single-object request that
// matched zero rows.
const pgrstNoRows = "PGRST116"

// AuthError is a credential/session operation rejected by the remote service.
// Status carries the upstream HTTP status so callers can map it back out.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth rejected (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("auth rejected (%d): %s", e.Status, e.Message)
}

// AsAuthError unwraps err into an *AuthError when possible.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
