package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository implements Repository using Redis as the backing store.
// Records are stored as JSON under key "gwsess:<token>" with TTL bound to
// the record's expiry.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-based session repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "gwsess:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(token string) string {
	return r.prefix + token
}

func (r *RedisRepository) Create(ctx context.Context, rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	exp := time.Until(rec.ExpiresAt)
	if exp <= 0 {
		// ensure a minimal TTL so Redis won't store expired records
		exp = time.Second
	}
	return r.client.Set(ctx, r.key(rec.Token), b, exp).Err()
}

func (r *RedisRepository) GetByToken(ctx context.Context, token string) (*Record, error) {
	b, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	// If the record expired from the perspective of the stored value, treat as missing
	if time.Now().UTC().After(rec.ExpiresAt) {
		_ = r.client.Del(ctx, r.key(token)).Err()
		return nil, nil
	}
	return &rec, nil
}

func (r *RedisRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}
