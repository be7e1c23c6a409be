package apierr

import (
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// RetryConfig holds retry parameters for exponential backoff.
//
// All fields must be non-negative. Invalid values are normalized:
//   - MaxRetries < 0 becomes 0 (single attempt)
//   - BaseDelay <= 0 becomes 1ms
//   - MaxDelay <= 0 becomes BaseDelay
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// normalize ensures all RetryConfig fields have valid values.
func (c *RetryConfig) normalize() {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = c.BaseDelay
	}
}

// RetryWithBackoff executes fn with exponential backoff retry.
// It retries only if shouldRetry returns true for the error; other
// errors abort immediately. The backoff schedule and waiting are
// delegated to cenkalti/backoff, capped at MaxRetries additional
// attempts, with context cancellation honored between attempts.
//
// Invalid RetryConfig values are normalized (see RetryConfig documentation).
func RetryWithBackoff[T any](
	ctx context.Context,
	cfg RetryConfig,
	fn func() (T, error),
	shouldRetry func(error) bool,
) (T, error) {
	cfg.normalize()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.BaseDelay
	bo.MaxInterval = cfg.MaxDelay
	// Attempts are bounded by MaxRetries, never by elapsed time.
	bo.MaxElapsedTime = 0

	var result T
	aborted := false
	op := func() error {
		res, err := fn()
		if err == nil {
			result = res
			return nil
		}
		if !shouldRetry(err) {
			aborted = true
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(cfg.MaxRetries)), ctx))
	if err == nil {
		return result, nil
	}

	var zero T
	if aborted || ctx.Err() != nil {
		return zero, err
	}
	return zero, fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
}
