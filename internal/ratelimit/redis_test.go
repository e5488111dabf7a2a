package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedisLimiter(rdb, "rl:auth", 2, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("rl:auth:10.0.0.1"))

	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	mr.FastForward(time.Minute)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_TTLNotExtendedByLaterHits(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedisLimiter(rdb, "rl", 10, time.Minute)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "k")
	mr.FastForward(40 * time.Second)
	_, _ = l.Allow(ctx, "k")

	assert.Equal(t, 20*time.Second, mr.TTL("rl:k"))
}

func TestRedisLimiter_RestoresMissingTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedisLimiter(rdb, "rl", 2, time.Minute)
	ctx := context.Background()

	// A counter left over capacity without an expiry.
	require.NoError(t, mr.Set("rl:k", "5"))

	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("rl:k"))

	mr.FastForward(time.Minute)
	ok, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "the client recovers once the restored window ends")
}

func TestRedisLimiter_Unavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedisLimiter(rdb, "rl", 10, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ErrRedisUnavailable)
}
