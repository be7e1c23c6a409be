package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ferrovax/go-highlights/internal/annotation"
	"github.com/ferrovax/go-highlights/internal/ffmpeg"
	"github.com/ferrovax/go-highlights/internal/format"
)

// clipsDirName is the subdirectory of the per-title audiobook dir
// holding extracted clips.
const clipsDirName = "clips"

// clipDirPerm is the permission mode for the clips directory.
const clipDirPerm = 0750

// ClipsDir returns the clips directory under a per-title audiobook dir.
func ClipsDir(audiobookDir string) string {
	return filepath.Join(audiobookDir, clipsDirName)
}

// Clip is a single extracted audio segment with its label.
type Clip struct {
	Window annotation.Window // The clip window in the source audio.
	Label  string            // Note text when matched, else "clip<N>".
	Path   string            // Absolute path to the FLAC artifact.
}

// String returns a human-readable representation for logging.
func (c Clip) String() string {
	return fmt.Sprintf("%s: %s", c.Label, c.Window)
}

// WarnFunc is a callback for warning messages during extraction.
// Set to nil to suppress warnings, or provide a custom handler.
type WarnFunc func(msg string)

// defaultWarnFunc writes warnings to stderr.
func defaultWarnFunc(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// Extractor slices a decoded audiobook into labeled FLAC clips.
type Extractor struct {
	ffmpegPath string
	warn       WarnFunc

	// Injectable dependencies (defaults to OS implementations).
	cmd   commandRunner
	dirs  dirMaker
	files fileRemover
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithExtractorCommandRunner sets the command runner for the Extractor.
func WithExtractorCommandRunner(r commandRunner) ExtractorOption {
	return func(e *Extractor) { e.cmd = r }
}

// WithExtractorDirMaker sets the directory maker for the Extractor.
func WithExtractorDirMaker(d dirMaker) ExtractorOption {
	return func(e *Extractor) { e.dirs = d }
}

// WithExtractorFileRemover sets the file remover for the Extractor.
func WithExtractorFileRemover(f fileRemover) ExtractorOption {
	return func(e *Extractor) { e.files = f }
}

// WithWarnFunc sets a callback for warning messages.
// By default, warnings are written to stderr. Set to nil to suppress.
func WithWarnFunc(fn WarnFunc) ExtractorOption {
	return func(e *Extractor) { e.warn = fn }
}

// NewExtractor creates an Extractor with functional options.
func NewExtractor(ffmpegPath string, opts ...ExtractorOption) (*Extractor, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	e := &Extractor{
		ffmpegPath: ffmpegPath,
		warn:       defaultWarnFunc,
		cmd:        osCommandRunner{},
		dirs:       osDirMaker{},
		files:      osFileRemover{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Extract slices buf into one FLAC clip per window, in window order.
//
// Windows starting at or past the end of the audio are skipped with a
// warning and produce no clip. Windows ending past the end are clamped
// to the audio duration. Each clip is labeled with the matching note
// text from notes, or "clip<N>" where N counts extracted clips from 1.
// Existing same-named artifacts are overwritten, so re-running is
// idempotent.
func (e *Extractor) Extract(ctx context.Context, buf Buffer, windows []annotation.Window, notes annotation.NoteIndex) ([]Clip, error) {
	clipsDir := filepath.Join(filepath.Dir(buf.Path), clipsDirName)
	if err := e.dirs.MkdirAll(clipsDir, clipDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create clips directory: %w", err)
	}

	clips := make([]Clip, 0, len(windows))
	for _, w := range windows {
		start := time.Duration(w.Start) * time.Millisecond
		end := time.Duration(w.End) * time.Millisecond

		if start >= buf.Duration {
			if e.warn != nil {
				e.warn(fmt.Sprintf("Warning: window at %s starts past end of audio (%s), skipping",
					format.Position(w.Start), format.Duration(buf.Duration)))
			}
			continue
		}
		end = min(end, buf.Duration)

		label := e.clipLabel(w, notes, len(clips)+1)
		clipPath := filepath.Join(clipsDir, label+".flac")

		if err := e.extractClip(ctx, buf.Path, clipPath, start, end); err != nil {
			for _, c := range clips {
				_ = e.files.Remove(c.Path) // best-effort cleanup; original error takes precedence
			}
			return nil, err
		}

		clips = append(clips, Clip{
			Window: w,
			Label:  label,
			Path:   clipPath,
		})
	}

	return clips, nil
}

// clipLabel returns the label for the n-th extracted clip (1-based):
// the sanitized note text when one matches the window's raw position,
// otherwise "clip<n>".
func (e *Extractor) clipLabel(w annotation.Window, notes annotation.NoteIndex, n int) string {
	if text, ok := notes.Lookup(w); ok {
		if label := sanitizeLabel(text); label != "" {
			return label
		}
	}
	return fmt.Sprintf("clip%d", n)
}

// sanitizeLabel makes note text safe to use as a file name.
// Path separators and NUL are replaced with underscores.
func sanitizeLabel(text string) string {
	text = strings.TrimSpace(text)
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"\x00", "_",
	)
	return replacer.Replace(text)
}

// extractClip exports a segment of audioPath to clipPath as FLAC.
func (e *Extractor) extractClip(ctx context.Context, audioPath, clipPath string, start, end time.Duration) error {
	args := []string{
		"-y",
		"-i", audioPath,
		"-ss", formatFFmpegTime(start),
		"-to", formatFFmpegTime(end),
		clipPath,
	}

	output, err := e.cmd.CombinedOutput(ctx, e.ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: %s: %v\nOutput: %s",
			ErrExtractionFailed, clipPath, err, string(output))
	}
	return nil
}
