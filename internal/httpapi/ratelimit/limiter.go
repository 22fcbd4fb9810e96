// Package ratelimit provides an optional Redis-backed fixed-window
// request limiter for internal/httpapi. When no Redis URL
// is configured, New returns a nil *Limiter and the caller skips
// mounting the middleware entirely rather than every call degrading to
// a no-op check.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces a fixed per-minute request budget per key (typically
// a client IP or user id), backed by a Redis INCR+EXPIRE counter.
type Limiter struct {
	client    *redis.Client
	perMinute int
}

// New connects to redisURL and returns a Limiter. An empty redisURL
// means rate limiting is disabled; New returns (nil, nil) in that case.
func New(redisURL string, perMinute int) (*Limiter, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return &Limiter{client: redis.NewClient(opts), perMinute: perMinute}, nil
}

// NewWithClient wraps an existing *redis.Client, used by tests against
// an in-memory miniredis instance.
func NewWithClient(client *redis.Client, perMinute int) *Limiter {
	return &Limiter{client: client, perMinute: perMinute}
}

// Allow reports whether key has budget remaining in the current
// one-minute window, incrementing its counter as a side effect.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/60)
	count, err := l.client.Incr(ctx, windowKey).Result()
	if err != nil {
		return false, fmt.Errorf("incrementing rate limit counter: %w", err)
	}
	if count == 1 {
		l.client.Expire(ctx, windowKey, time.Minute)
	}
	return count <= int64(l.perMinute), nil
}

// Close releases the underlying Redis connection.
func (l *Limiter) Close() error {
	return l.client.Close()
}
