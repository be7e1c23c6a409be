// Package apierr provides shared error sentinels, HTTP status
// classification, and retry infrastructure for the remote services the
// pipeline talks to (annotation source, transcription providers).
//
// Adapters classify provider-specific failures into these sentinels at
// the boundary using Classify or fmt.Errorf("%s: %w", msg, sentinel).
// Callers check with errors.Is(err, apierr.ErrRateLimit) etc.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid or expired credentials).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrUnavailable indicates a server-side failure (5xx, retryable).
	ErrUnavailable = errors.New("service unavailable")
)

// Classify maps an HTTP status code and message to a sentinel error.
// Returns nil for 2xx statuses. The message is preserved in the wrap
// so errors.Is checks and human-readable output both work.
func Classify(statusCode int, msg string) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", statusCode)
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		// Quota exhaustion arrives with the same status as transient
		// rate limiting but requires user action, so it must not be
		// retried.
		if strings.Contains(msg, "quota") || strings.Contains(msg, "billing") {
			return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", msg, ErrRateLimit)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, ErrAuthFailed)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", msg, ErrTimeout)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w", msg, ErrUnavailable)
	default:
		if statusCode >= 400 && statusCode < 500 {
			return fmt.Errorf("%s: %w", msg, ErrBadRequest)
		}
		return fmt.Errorf("HTTP %d: %s", statusCode, msg)
	}
}

// IsRetryable reports whether an error is transient and worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnavailable)
}
