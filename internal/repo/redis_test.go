package repo

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedisStore runs against a live server only when REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	store := NewRedisStore(rdb, "dosasset:test:")
	defer store.Close()
	defer rdb.Del(ctx, "dosasset:test:assets", "dosasset:test:history")

	require.NoError(t, store.Ping(ctx))

	_, ok, err := store.Get(ctx, "assets")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, map[string]string{"assets": "[]", "history": "[]"}))
	v, ok, err := store.Get(ctx, "assets")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}
