package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
)

// minFFmpegMajorVersion is the minimum supported ffmpeg version.
// Versions below this may lack required codec and seek behavior.
const minFFmpegMajorVersion = 4

// Environment variable for custom ffmpeg path.
const envFFmpegPath = "FFMPEG_PATH"

// ---------------------------------------------------------------------------
// Resolver - testable FFmpeg resolution with dependency injection
// ---------------------------------------------------------------------------

// Resolver locates the FFmpeg binary.
type Resolver struct {
	statter fileStatter
	env     envProvider
	goos    string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFileStatter sets the file statter implementation.
func WithFileStatter(s fileStatter) ResolverOption {
	return func(res *Resolver) { res.statter = s }
}

// WithEnvProvider sets the environment provider implementation.
func WithEnvProvider(e envProvider) ResolverOption {
	return func(res *Resolver) { res.env = e }
}

// WithPlatform sets the target OS (for testing cross-platform instructions).
func WithPlatform(goos string) ResolverOption {
	return func(res *Resolver) { res.goos = goos }
}

// NewResolver creates a Resolver with the given options.
// Uses production defaults if no options are provided.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		statter: osFileStatter{},
		env:     osEnvProvider{},
		goos:    runtime.GOOS,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds ffmpeg using the following precedence:
//  1. FFMPEG_PATH environment variable (error if set but invalid)
//  2. System PATH
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// 1. Check FFMPEG_PATH environment variable
	if envPath := r.env.Getenv(envFFmpegPath); envPath != "" {
		if _, err := r.statter.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but binary not found",
				ErrNotFound, envFFmpegPath, envPath)
		}
		return envPath, nil
	}

	// 2. Check system PATH
	if path, err := r.env.LookPath("ffmpeg"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w\n\n%s", ErrNotFound, r.installInstructions())
}

// installInstructions returns platform-specific instructions.
func (r *Resolver) installInstructions() string {
	switch r.goos {
	case "darwin":
		return `To install FFmpeg:
  brew install ffmpeg

Or download from https://evermeet.cx/ffmpeg/

Or set FFMPEG_PATH environment variable to your ffmpeg binary.`
	case "linux":
		return `To install FFmpeg:
  Ubuntu/Debian: sudo apt install ffmpeg
  Fedora:        sudo dnf install ffmpeg
  Arch:          sudo pacman -S ffmpeg

Or set FFMPEG_PATH environment variable to your ffmpeg binary.`
	case "windows":
		return `To install FFmpeg:
  winget install ffmpeg

Or download from https://www.gyan.dev/ffmpeg/builds/

Or set FFMPEG_PATH environment variable to your ffmpeg.exe.`
	default:
		return `To install FFmpeg, download from https://ffmpeg.org/download.html
Or set FFMPEG_PATH environment variable to your ffmpeg binary.`
	}
}

// ---------------------------------------------------------------------------
// Package-level functions - backward compatible facade
// ---------------------------------------------------------------------------

var (
	defaultResolver     *Resolver
	defaultResolverOnce sync.Once
)

// getDefaultResolver returns the lazily-initialized default resolver.
func getDefaultResolver() *Resolver {
	defaultResolverOnce.Do(func() {
		defaultResolver = NewResolver()
	})
	return defaultResolver
}

// Resolve finds ffmpeg using the default resolver.
func Resolve(ctx context.Context) (string, error) {
	return getDefaultResolver().Resolve(ctx)
}

// VersionChecker verifies FFmpeg version requirements.
type VersionChecker struct {
	executor *Executor
	stderr   io.Writer
}

// VersionCheckerOption configures a VersionChecker.
type VersionCheckerOption func(*VersionChecker)

// WithVersionExecutor sets the executor for running FFmpeg.
func WithVersionExecutor(e *Executor) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.executor = e }
}

// WithVersionStderr sets the writer for warning messages.
func WithVersionStderr(w io.Writer) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.stderr = w }
}

// NewVersionChecker creates a VersionChecker with the given options.
func NewVersionChecker(opts ...VersionCheckerOption) *VersionChecker {
	vc := &VersionChecker{
		executor: NewExecutor(),
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(vc)
	}
	return vc
}

// Check verifies that ffmpeg meets minimum version requirements.
// Prints a warning to stderr if version is below minimum but doesn't fail.
// Returns true if version was successfully checked, false if parsing failed.
func (vc *VersionChecker) Check(ctx context.Context, ffmpegPath string) bool {
	output, err := vc.executor.RunOutput(ctx, ffmpegPath, []string{"-version"})
	if err != nil && output == "" {
		return false // Can't check version, proceed anyway
	}

	// Parse version from output like "ffmpeg version 6.1.1 Copyright..."
	lines := strings.Split(output, "\n")
	if len(lines) == 0 || lines[0] == "" {
		return false
	}

	var major int
	_, err = fmt.Sscanf(lines[0], "ffmpeg version %d", &major)
	if err != nil {
		// Try alternative format "ffmpeg version n6.1.1..."
		_, err = fmt.Sscanf(lines[0], "ffmpeg version n%d", &major)
		if err != nil {
			return false // Can't parse version
		}
	}

	if major < minFFmpegMajorVersion {
		fmt.Fprintf(vc.stderr, "Warning: ffmpeg version %d detected, version %d+ recommended\n",
			major, minFFmpegMajorVersion)
	}
	return true
}

// CheckVersion verifies that ffmpeg meets minimum version requirements.
// This is a backward-compatible facade for the VersionChecker.Check method.
func CheckVersion(ctx context.Context, ffmpegPath string) {
	NewVersionChecker().Check(ctx, ffmpegPath)
}
