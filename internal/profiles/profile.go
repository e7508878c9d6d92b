package profiles

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the application-owned user record, keyed by identity id. One
// profile per identity; the id doubles as the foreign key into the auth
// record.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Profession string    `json:"profession"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Changes is a partial profile update. Nil fields are left untouched.
type Changes struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Profession *string `json:"profession,omitempty"`
}

// Empty reports whether the update would change nothing.
func (c Changes) Empty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Profession == nil
}
