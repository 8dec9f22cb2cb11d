// Package ratelimit paces sequential requests to a fixed rate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter spaces requests evenly at rps. A nil *RateLimiter, or one
// built with rps <= 0, never blocks.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter admitting one request every 1/rps
// seconds. Fractional rates are allowed.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		return &RateLimiter{}
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Wait blocks until the next request may start or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil || r.limiter == nil {
		return ctx.Err()
	}
	return r.limiter.Wait(ctx)
}

// Rate returns the configured requests per second, 0 when unlimited.
func (r *RateLimiter) Rate() float64 {
	if r == nil || r.limiter == nil {
		return 0
	}
	return float64(r.limiter.Limit())
}
