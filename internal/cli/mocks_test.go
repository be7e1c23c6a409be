package cli_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ferrovax/go-highlights/internal/annotation"
	"github.com/ferrovax/go-highlights/internal/audible"
	"github.com/ferrovax/go-highlights/internal/audio"
	"github.com/ferrovax/go-highlights/internal/cli"
	"github.com/ferrovax/go-highlights/internal/config"
	"github.com/ferrovax/go-highlights/internal/transcribe"
)

// ---------------------------------------------------------------------------
// Shared mocks implementing the Env factory interfaces
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	cfg config.Config
	err error
}

func (m mockConfigLoader) Load() (config.Config, error) {
	return m.cfg, m.err
}

type mockFFmpegResolver struct {
	path string
	err  error
}

func (m mockFFmpegResolver) Resolve(_ context.Context) (string, error) {
	return m.path, m.err
}

func (m mockFFmpegResolver) CheckVersion(_ context.Context, _ string) {}

type mockAudibleClient struct {
	books       []audible.Book
	libraryErr  error
	records     map[string][]annotation.Record
	recordsErr  error
	raw         map[string][]audible.RawRecord
	rawErr      error
	libraryHits int
}

func (m *mockAudibleClient) Library(_ context.Context) ([]audible.Book, error) {
	m.libraryHits++
	if m.libraryErr != nil {
		return nil, m.libraryErr
	}
	return m.books, nil
}

func (m *mockAudibleClient) Annotations(_ context.Context, asin string) ([]annotation.Record, error) {
	if m.recordsErr != nil {
		return nil, m.recordsErr
	}
	return m.records[asin], nil
}

func (m *mockAudibleClient) RawAnnotations(_ context.Context, asin string) ([]audible.RawRecord, error) {
	if m.rawErr != nil {
		return nil, m.rawErr
	}
	return m.raw[asin], nil
}

type mockAudibleFactory struct {
	client          cli.AudibleClient
	err             error
	gotArtifactsDir string
}

func (m *mockAudibleFactory) NewClient(artifactsDir string) (cli.AudibleClient, error) {
	m.gotArtifactsDir = artifactsDir
	if m.err != nil {
		return nil, m.err
	}
	return m.client, nil
}

type mockBufferProvider struct {
	artifactsDir string
	buf          audio.Buffer
	err          error
}

func (m *mockBufferProvider) AudiobookDir(title string) string {
	return audio.AudiobookDir(m.artifactsDir, title)
}

func (m *mockBufferProvider) Open(_ context.Context, _ string) (audio.Buffer, error) {
	if m.err != nil {
		return audio.Buffer{}, m.err
	}
	return m.buf, nil
}

type mockClipExtractor struct {
	clips      []audio.Clip
	err        error
	gotWindows []annotation.Window
	gotNotes   annotation.NoteIndex
}

func (m *mockClipExtractor) Extract(_ context.Context, _ audio.Buffer, windows []annotation.Window, notes annotation.NoteIndex) ([]audio.Clip, error) {
	m.gotWindows = windows
	m.gotNotes = notes
	if m.err != nil {
		return nil, m.err
	}
	return m.clips, nil
}

type mockAudioFactory struct {
	provider     cli.BufferProvider
	providerErr  error
	extractor    cli.ClipExtractor
	extractorErr error
}

func (m *mockAudioFactory) NewProvider(_, _ string) (cli.BufferProvider, error) {
	if m.providerErr != nil {
		return nil, m.providerErr
	}
	return m.provider, nil
}

func (m *mockAudioFactory) NewExtractor(_ string, _ audio.WarnFunc) (cli.ClipExtractor, error) {
	if m.extractorErr != nil {
		return nil, m.extractorErr
	}
	return m.extractor, nil
}

// pathTranscriber returns canned text keyed by the clip's base name.
type pathTranscriber struct {
	mu    sync.Mutex
	texts map[string]string
	errs  map[string]error
	calls []string
}

func (m *pathTranscriber) Transcribe(_ context.Context, clipPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, clipPath)
	if err, ok := m.errs[clipPath]; ok {
		return "", err
	}
	return m.texts[clipPath], nil
}

type mockTranscriberFactory struct {
	transcriber transcribe.Transcriber
	err         error
	gotProvider cli.Provider
	gotAPIKey   string
	calls       int
}

func (m *mockTranscriberFactory) NewTranscriber(p cli.Provider, apiKey string) (transcribe.Transcriber, error) {
	m.calls++
	m.gotProvider = p
	m.gotAPIKey = apiKey
	if m.err != nil {
		return nil, m.err
	}
	return m.transcriber, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// getenvFrom builds a Getenv function backed by a map.
func getenvFrom(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

// testBooks is the library fixture shared across command tests.
func testBooks() []audible.Book {
	return []audible.Book{
		{ASIN: "B07DBRBP7G", Title: "Deep Work", Authors: []string{"Cal Newport"}},
		{ASIN: "B07RFSSYBH", Title: "Atomic Habits", Authors: []string{"James Clear"}},
	}
}

// runCommand executes a command with captured stdout, returning the
// output and execution error.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
