package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestRedis(t *testing.T) (*redis.Client, *mr.Miniredis) {
	t.Helper()
	srv, err := mr.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(srv.Close)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()}), srv
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRedisRepository(client, "")
	ctx := context.Background()

	sess := testSession("a@x.com")
	rec := &Record{
		Token:     "tok-1",
		Session:   *sess,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	assert.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByToken(ctx, "tok-1")
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, sess.Identity.ID, got.Session.Identity.ID)
		assert.Equal(t, "a@x.com", got.Session.Identity.Email)
	}

	assert.NoError(t, repo.DeleteByToken(ctx, "tok-1"))
	got, err = repo.GetByToken(ctx, "tok-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRepositoryMissingToken(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRedisRepository(client, "")

	got, err := repo.GetByToken(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRepositoryExpiredRecord(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRedisRepository(client, "")
	ctx := context.Background()

	rec := &Record{
		Token:     "tok-exp",
		Session:   *testSession("a@x.com"),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	// Create stores with a minimal TTL; the read path also rejects by value
	assert.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByToken(ctx, "tok-exp")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
