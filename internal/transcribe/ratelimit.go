package transcribe

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestInterval is the minimum spacing between provider calls.
// Clips are transcribed serially, so one request per interval keeps the
// pipeline well under provider rate limits.
const DefaultRequestInterval = 2 * time.Second

// RateLimited wraps a Transcriber so calls are spaced out by a minimum
// interval. The first call passes immediately.
type RateLimited struct {
	inner   Transcriber
	limiter *rate.Limiter
}

// Compile-time interface compliance check.
var _ Transcriber = (*RateLimited)(nil)

// NewRateLimited wraps inner with a limiter allowing one call per
// interval. Non-positive intervals fall back to DefaultRequestInterval.
func NewRateLimited(inner Transcriber, interval time.Duration) *RateLimited {
	if interval <= 0 {
		interval = DefaultRequestInterval
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Transcribe waits for a limiter token, then delegates to the wrapped
// transcriber.
func (r *RateLimited) Transcribe(ctx context.Context, clipPath string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.inner.Transcribe(ctx, clipPath)
}
