package profiles

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a simple in-memory repository used by the flow checker
// when no remote store is reachable and by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[uuid.UUID]*Profile
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[uuid.UUID]*Profile)}
}

func (m *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) Create(ctx context.Context, p *Profile) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	cp := *p
	if existing, ok := m.store[p.ID]; ok {
		// merge on conflict, matching the remote upsert behavior
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	m.store[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id uuid.UUID, changes Changes) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	if changes.FirstName != nil {
		p.FirstName = *changes.FirstName
	}
	if changes.LastName != nil {
		p.LastName = *changes.LastName
	}
	if changes.Profession != nil {
		p.Profession = *changes.Profession
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}
