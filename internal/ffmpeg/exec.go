package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
)

// ---------------------------------------------------------------------------
// Executor - testable FFmpeg execution with dependency injection
// ---------------------------------------------------------------------------

// runOutputFn is the function type for running a command and capturing output.
type runOutputFn func(ctx context.Context, path string, args []string) (string, error)

// Executor runs FFmpeg commands with injectable dependencies.
type Executor struct {
	runOutput runOutputFn
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRunOutput sets a custom runOutput function (for testing).
func WithRunOutput(fn runOutputFn) ExecutorOption {
	return func(e *Executor) { e.runOutput = fn }
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		runOutput: defaultRunOutput,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunOutput executes FFmpeg and captures its stderr output.
// FFmpeg writes most diagnostic output (including probe info) to stderr.
func (e *Executor) RunOutput(ctx context.Context, ffmpegPath string, args []string) (string, error) {
	return e.runOutput(ctx, ffmpegPath, args)
}

// defaultRunOutput is the production implementation.
// Returns stderr output even when the command fails, since FFmpeg returns
// non-zero exit codes for some valid operations (e.g., probing with no
// output file specified).
func defaultRunOutput(ctx context.Context, ffmpegPath string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	// stderr carries the useful data regardless of the exit code.
	return stderr.String(), err
}
