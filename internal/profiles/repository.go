package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/authbridge/gateway/internal/remote"
)

// Repository defines persistence operations for profiles. Lookups return
// (nil, nil) when no profile exists; a non-nil error always means the
// operation itself failed.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Create(ctx context.Context, p *Profile) (*Profile, error)
	Update(ctx context.Context, id uuid.UUID, changes Changes) (*Profile, error)
}

const usersTable = "users"

// RemoteRepository stores profiles in the remote service's users table.
type RemoteRepository struct {
	client *remote.Client
}

func NewRemoteRepository(c *remote.Client) *RemoteRepository {
	return &RemoteRepository{client: c}
}

// profileRow is the wire shape of a users-table row. Timestamps are owned by
// the remote store (created_at defaults to now there).
type profileRow struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Profession string    `json:"profession"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

func (r *RemoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var row profileRow
	if err := r.client.SelectByID(ctx, usersTable, id.String(), &row); err != nil {
		if errors.Is(err, remote.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rowToProfile(&row)
}

// Create inserts the profile. The insert merges on the primary key, so a
// concurrent creation for the same identity lands as an update rather than
// a duplicate-row error.
func (r *RemoteRepository) Create(ctx context.Context, p *Profile) (*Profile, error) {
	in := profileRow{
		ID:         p.ID.String(),
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Profession: p.Profession,
	}
	var out profileRow
	if err := r.client.UpsertRow(ctx, usersTable, insertShape(in), &out); err != nil {
		return nil, err
	}
	return rowToProfile(&out)
}

func (r *RemoteRepository) Update(ctx context.Context, id uuid.UUID, changes Changes) (*Profile, error) {
	patch := map[string]interface{}{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if changes.FirstName != nil {
		patch["first_name"] = *changes.FirstName
	}
	if changes.LastName != nil {
		patch["last_name"] = *changes.LastName
	}
	if changes.Profession != nil {
		patch["profession"] = *changes.Profession
	}
	var out profileRow
	if err := r.client.UpdateByID(ctx, usersTable, id.String(), patch, &out); err != nil {
		if errors.Is(err, remote.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rowToProfile(&out)
}

// insertShape strips read-only timestamp fields so the store applies its
// own defaults.
func insertShape(row profileRow) map[string]interface{} {
	return map[string]interface{}{
		"id":         row.ID,
		"email":      row.Email,
		"first_name": row.FirstName,
		"last_name":  row.LastName,
		"profession": row.Profession,
	}
}

func rowToProfile(row *profileRow) (*Profile, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:         id,
		Email:      row.Email,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Profession: row.Profession,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}
