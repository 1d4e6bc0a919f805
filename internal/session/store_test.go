package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestRedisStoreSaveAndGet(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", 42, time.Hour))

	userID, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))
}

func TestRedisStoreGetMissing(t *testing.T) {
	store, _ := setupRedisStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", 1, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStoreInvalidAddr(t *testing.T) {
	store, err := NewRedisStore(context.Background(), RedisOptions{Addr: "127.0.0.1:1"})
	assert.Nil(t, store)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", 7, time.Minute))

	userID, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	_, err = store.Get(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.sessions)
}
