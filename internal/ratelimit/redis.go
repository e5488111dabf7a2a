package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Limiter = (*RedisLimiter)(nil)

// RedisLimiter keeps counters in Redis so several instances share one budget.
type RedisLimiter struct {
	redis  redis.UniversalClient
	prefix string
	max    int
	window time.Duration
}

// NewRedisLimiter creates a RedisLimiter allowing max hits per window.
func NewRedisLimiter(client redis.UniversalClient, prefix string, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		redis:  client,
		prefix: prefix,
		max:    max,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.incrementWithTTL(ctx, l.prefix+":"+key)
	if err != nil {
		return false, err
	}
	return count <= int64(l.max), nil
}

func (l *RedisLimiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed window: the TTL is set once, on the first hit, and re-set if an
	// earlier EXPIRE was lost so the key cannot outlive its window forever.
	if ttl.Val() < 0 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return incr.Val(), nil
}
