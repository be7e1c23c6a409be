package transcribe

import (
	"context"
	"fmt"
	"io"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

// transcriptService is an internal interface over the AssemblyAI SDK's
// transcript operations. *aai.TranscriptService implements this
// implicitly. This allows injecting mocks in tests.
type transcriptService interface {
	TranscribeFromReader(ctx context.Context, reader io.Reader, params *aai.TranscriptOptionalParams) (aai.Transcript, error)
}

var _ transcriptService = (*aai.TranscriptService)(nil)

// AssemblyAITranscriber transcribes clips using AssemblyAI's transcript
// service. The SDK uploads the clip and polls until the job settles, so
// no retry loop is layered on top.
type AssemblyAITranscriber struct {
	transcripts transcriptService
}

// Compile-time interface compliance check.
var _ Transcriber = (*AssemblyAITranscriber)(nil)

// AssemblyAIOption configures an AssemblyAITranscriber.
type AssemblyAIOption func(*AssemblyAITranscriber)

// WithTranscriptService sets a custom transcript service (for testing).
func WithTranscriptService(s transcriptService) AssemblyAIOption {
	return func(t *AssemblyAITranscriber) {
		t.transcripts = s
	}
}

// NewAssemblyAITranscriber creates a transcriber backed by the AssemblyAI
// SDK client for the given API key.
func NewAssemblyAITranscriber(apiKey string, opts ...AssemblyAIOption) (*AssemblyAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("assemblyai: %w", ErrAPIKeyMissing)
	}

	t := &AssemblyAITranscriber{
		transcripts: aai.NewClient(apiKey).Transcripts,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Transcribe uploads the clip and waits for the transcript job to settle.
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, clipPath string) (string, error) {
	file, err := os.Open(clipPath) // #nosec G304 -- clipPath comes from the extractor
	if err != nil {
		return "", fmt.Errorf("failed to open clip: %w", err)
	}
	defer func() { _ = file.Close() }()

	transcript, err := t.transcripts.TranscribeFromReader(ctx, file, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognition, err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "transcript job failed"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("%w: %s", ErrRecognition, msg)
	}

	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}
