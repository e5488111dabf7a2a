// Package ratelimit implements fixed-window request counters keyed by client.
package ratelimit

import (
	"context"
	"errors"
)

// ErrRedisUnavailable wraps failures talking to the Redis backend.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Limiter counts one hit for key and reports whether it is within budget.
// The first hit of a window starts it; the counter resets when it elapses.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
