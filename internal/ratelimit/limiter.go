// Package ratelimit spaces outbound requests with a shared token bucket.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between requests. A single Limiter is
// shared by every fetch and download call, so growing the worker pool does
// not multiply the request rate.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter allowing one request per interval. A non-positive
// interval disables limiting.
func New(interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until a token is available or the context ends.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}
