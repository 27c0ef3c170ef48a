package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envTestRedisAddr points the Redis round-trip test at a live server.
const envTestRedisAddr = "BOOKCAT_TEST_REDIS_ADDR"

func TestVersionedKey(t *testing.T) {
	assert.Equal(t, "bookcat:v1:abc", versionedKey("bookcat:", 1, "abc"))
	assert.Equal(t, "x:v12:abc", versionedKey("x:", 12, "abc"))
}

func TestNewRedisStore_Defaults(t *testing.T) {
	_, err := NewRedisStore(RedisOptions{})
	require.Error(t, err)

	s := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), RedisOptions{})
	t.Cleanup(func() { _ = s.rdb.Close() })

	assert.Equal(t, DefaultRedisPrefix, s.prefix)
	assert.Equal(t, time.Duration(DefaultTTLSeconds)*time.Second, s.ttl)
	assert.Equal(t, DefaultRedisOpTimeout, s.opTimeout)
	assert.True(t, s.Enabled())
	assert.NoError(t, s.Close())
}

func TestRedisStore_Unreachable(t *testing.T) {
	s, err := NewRedisStore(RedisOptions{Addr: "127.0.0.1:1", OpTimeout: 100 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	_, err = s.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, IsMiss(err))
	assert.Error(t, s.Set(ctx, "k", json.RawMessage(`1`)))
	assert.Error(t, s.Ping(ctx))

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidCacheKey)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv(envTestRedisAddr)
	if addr == "" {
		t.Skipf("%s not set", envTestRedisAddr)
	}

	s, err := NewRedisStore(RedisOptions{
		Addr:       addr,
		Prefix:     "bookcat-test:" + t.Name() + ":",
		TTLSeconds: 30,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheNotFound)

	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`{"a":1}`)))
	entry, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(entry.Data))

	require.NoError(t, s.Clear(ctx))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheNotFound)

	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`2`)))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}
