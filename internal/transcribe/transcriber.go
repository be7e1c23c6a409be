// Package transcribe converts extracted audio clips to text.
//
// Two providers are available behind the same Transcriber interface:
// OpenAI's transcription API and AssemblyAI's async transcript service.
// Both classify provider failures into internal/apierr sentinels at the
// boundary and retry transient ones with exponential backoff. Callers
// that must stay under a provider's request rate wrap either provider
// with NewRateLimited.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ferrovax/go-highlights/internal/apierr"
)

// ModelGPT4oMiniTranscribe is the cost-effective transcription model.
// Not yet a constant in go-openai, so we define it locally.
const ModelGPT4oMiniTranscribe = "gpt-4o-mini-transcribe"

// Default retry configuration.
const (
	defaultMaxRetries = 5
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Transcriber transcribes a single audio clip to text.
type Transcriber interface {
	// Transcribe converts the clip at clipPath to text.
	// clipPath must be a file in a format the provider accepts
	// (the extractor produces flac, which both providers take).
	Transcribe(ctx context.Context, clipPath string) (string, error)
}

// audioTranscriber is an internal interface for OpenAI audio transcription.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Transcriber      = (*OpenAITranscriber)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// OpenAITranscriber transcribes clips using OpenAI's transcription API.
// It retries transient errors with exponential backoff.
type OpenAITranscriber struct {
	client     audioTranscriber
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// OpenAIOption configures an OpenAITranscriber.
type OpenAIOption func(*OpenAITranscriber)

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) OpenAIOption {
	return func(t *OpenAITranscriber) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) OpenAIOption {
	return func(t *OpenAITranscriber) {
		if base > 0 {
			t.baseDelay = base
		}
		if max > 0 {
			t.maxDelay = max
		}
	}
}

// NewOpenAITranscriber creates a new OpenAITranscriber.
// The client is injected to enable testing with mocks.
func NewOpenAITranscriber(client audioTranscriber, opts ...OpenAIOption) *OpenAITranscriber {
	t := &OpenAITranscriber{
		client:     client,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe transcribes a clip using OpenAI's API.
// Transient errors (rate limits, timeouts, server errors) are retried.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, clipPath string) (string, error) {
	req := openai.AudioRequest{
		Model:    ModelGPT4oMiniTranscribe,
		FilePath: clipPath,
		Format:   openai.AudioResponseFormatJSON,
	}

	cfg := apierr.RetryConfig{
		MaxRetries: t.maxRetries,
		BaseDelay:  t.baseDelay,
		MaxDelay:   t.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		resp, err := t.client.CreateTranscription(ctx, req)
		if err != nil {
			return "", classifyOpenAIError(err)
		}
		return resp.Text, nil
	}, apierr.IsRetryable)
}

// classifyOpenAIError maps OpenAI API errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if classified := apierr.Classify(apiErr.HTTPStatusCode, apiErr.Message); classified != nil {
			return classified
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}
