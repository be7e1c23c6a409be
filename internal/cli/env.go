package cli

import (
	"context"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ferrovax/go-highlights/internal/annotation"
	"github.com/ferrovax/go-highlights/internal/audible"
	"github.com/ferrovax/go-highlights/internal/audio"
	"github.com/ferrovax/go-highlights/internal/config"
	"github.com/ferrovax/go-highlights/internal/ffmpeg"
	"github.com/ferrovax/go-highlights/internal/transcribe"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	FFmpegResolver     FFmpegResolver
	ConfigLoader       ConfigLoader
	AudibleFactory     AudibleFactory
	AudioFactory       AudioFactory
	TranscriberFactory TranscriberFactory
}

// FFmpegResolver resolves the path to the FFmpeg binary.
type FFmpegResolver interface {
	Resolve(ctx context.Context) (string, error)
	CheckVersion(ctx context.Context, ffmpegPath string)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// AudibleClient lists the library and fetches annotation records.
type AudibleClient interface {
	Library(ctx context.Context) ([]audible.Book, error)
	Annotations(ctx context.Context, asin string) ([]annotation.Record, error)
	RawAnnotations(ctx context.Context, asin string) ([]audible.RawRecord, error)
}

// AudibleFactory creates authenticated Audible clients.
type AudibleFactory interface {
	NewClient(artifactsDir string) (AudibleClient, error)
}

// BufferProvider opens per-title decoded audio.
type BufferProvider interface {
	AudiobookDir(title string) string
	Open(ctx context.Context, title string) (audio.Buffer, error)
}

// ClipExtractor slices clip windows out of a buffer.
type ClipExtractor interface {
	Extract(ctx context.Context, buf audio.Buffer, windows []annotation.Window, notes annotation.NoteIndex) ([]audio.Clip, error)
}

// AudioFactory creates audio buffer providers and clip extractors.
type AudioFactory interface {
	NewProvider(ffmpegPath, artifactsDir string) (BufferProvider, error)
	NewExtractor(ffmpegPath string, warn audio.WarnFunc) (ClipExtractor, error)
}

// TranscriberFactory creates transcribers for the selected provider.
type TranscriberFactory interface {
	NewTranscriber(p Provider, apiKey string) (transcribe.Transcriber, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithFFmpegResolver sets the FFmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) {
		e.FFmpegResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithAudibleFactory sets the Audible client factory.
func WithAudibleFactory(f AudibleFactory) EnvOption {
	return func(e *Env) {
		e.AudibleFactory = f
	}
}

// WithAudioFactory sets the audio factory.
func WithAudioFactory(f AudioFactory) EnvOption {
	return func(e *Env) {
		e.AudioFactory = f
	}
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) {
		e.TranscriberFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		FFmpegResolver:     &defaultFFmpegResolver{},
		ConfigLoader:       &defaultConfigLoader{},
		AudibleFactory:     &defaultAudibleFactory{},
		AudioFactory:       &defaultAudioFactory{},
		TranscriberFactory: &defaultTranscriberFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultFFmpegResolver implements FFmpegResolver using the ffmpeg package.
type defaultFFmpegResolver struct{}

func (defaultFFmpegResolver) Resolve(ctx context.Context) (string, error) {
	return ffmpeg.Resolve(ctx)
}

func (defaultFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	ffmpeg.CheckVersion(ctx, ffmpegPath)
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultAudibleFactory builds clients from persisted credentials.
type defaultAudibleFactory struct{}

func (defaultAudibleFactory) NewClient(artifactsDir string) (AudibleClient, error) {
	creds, err := audible.LoadCredentials(artifactsDir)
	if err != nil {
		return nil, err
	}
	return audible.NewClient(creds)
}

// defaultAudioFactory implements AudioFactory using the audio package.
type defaultAudioFactory struct{}

func (defaultAudioFactory) NewProvider(ffmpegPath, artifactsDir string) (BufferProvider, error) {
	return audio.NewProvider(ffmpegPath, artifactsDir)
}

func (defaultAudioFactory) NewExtractor(ffmpegPath string, warn audio.WarnFunc) (ClipExtractor, error) {
	return audio.NewExtractor(ffmpegPath, audio.WithWarnFunc(warn))
}

// defaultTranscriberFactory implements TranscriberFactory for the
// supported providers.
type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewTranscriber(p Provider, apiKey string) (transcribe.Transcriber, error) {
	if p.IsAssemblyAI() {
		return transcribe.NewAssemblyAITranscriber(apiKey)
	}
	return transcribe.NewOpenAITranscriber(openai.NewClient(apiKey)), nil
}
