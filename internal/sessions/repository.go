package sessions

import (
	"context"
	"sync"
	"time"
)

// Record is a gateway-held session keyed by the opaque cookie token handed
// to the browser.
type Record struct {
	Token     string    `json:"token"`
	Session   Session   `json:"session"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Repository provides gateway session persistence.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByToken(ctx context.Context, token string) (*Record, error)
	DeleteByToken(ctx context.Context, token string) error
}

// MemoryRepository keeps records in process memory. Used when no Redis is
// configured and in tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Record)}
}

func (m *MemoryRepository) Create(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[rec.Token] = rec
	return nil
}

func (m *MemoryRepository) GetByToken(ctx context.Context, token string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.store[token]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

func (m *MemoryRepository) DeleteByToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, token)
	return nil
}
