package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps a token bucket rate limiter that admits one call per interval.
type Limiter struct {
	limiter *rate.Limiter
}

// Every creates a limiter that allows one request per interval. A
// non-positive interval disables pacing.
func Every(interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the limiter allows another request. A nil Limiter never
// blocks.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}
	return l.limiter.Wait(ctx)
}
