package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Service lookups when no profile exists.
var ErrNotFound = errors.New("profile not found")

// Service encapsulates profile read/update operations for handlers.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, changes Changes) (*Profile, error) {
	if changes.Empty() {
		return s.Get(ctx, id)
	}
	p, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
