// Package ratelimit implements a fixed-window request limiter backed by Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLimited = errors.New("rate limit exceeded")

// Counter increments the hit count of a window key, expiring the key with
// the window.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Result describes the state of a client's current window
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter allows Limit hits per key in each fixed window
type Limiter struct {
	counter Counter
	limit   int
	window  time.Duration
	prefix  string
	now     func() time.Time
}

// New creates a limiter over counter
func New(counter Counter, limit int, window time.Duration) *Limiter {
	return &Limiter{
		counter: counter,
		limit:   limit,
		window:  window,
		prefix:  "travel-catalog:ratelimit:",
		now:     time.Now,
	}
}

// Allow records a hit for key. It returns ErrLimited once the window's
// budget is spent.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	start := now.Truncate(l.window)
	res := Result{Limit: l.limit, ResetAt: start.Add(l.window)}

	bucket := fmt.Sprintf("%s%s:%d", l.prefix, key, start.Unix())
	n, err := l.counter.Incr(ctx, bucket, l.window)
	if err != nil {
		return res, fmt.Errorf("increment %s: %w", bucket, err)
	}

	res.Remaining = max(l.limit-int(n), 0)
	if n > int64(l.limit) {
		return res, ErrLimited
	}
	return res, nil
}

// RedisCounter implements Counter with INCR and EXPIRE
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter wraps a redis client
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr implements Counter. Window keys are unique per window start, so
// refreshing the expiry on every hit never extends a window.
func (c *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
