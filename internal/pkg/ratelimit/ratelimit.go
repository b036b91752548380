// Package ratelimit implements a Redis-backed fixed-window request limiter.
//
// A banking API is assumed to run more than one replica, so the teacher's
// original in-memory per-IP limiter (a map guarded by a mutex) doesn't hold
// a limit across replicas. Redis gives every replica a shared counter; the
// INCR+EXPIRE NX pair is sent as one MULTI/EXEC transaction so concurrent
// requests across replicas can't race past the limit.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func New(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// Allow increments the counter for key and reports whether the caller is
// still within the window's limit. The very first increment in a window
// sets the expiry; later increments in the same window leave it alone so
// the window doesn't keep sliding forward.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("ratelimit: redis pipeline failed: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}
