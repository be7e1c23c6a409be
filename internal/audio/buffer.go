package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ferrovax/go-highlights/internal/ffmpeg"
	"github.com/ferrovax/go-highlights/internal/format"
)

// Buffer is a decoded audiobook ready for clip extraction.
type Buffer struct {
	Title    string        // Display title of the book.
	Path     string        // Absolute path to the decoded audio file.
	Duration time.Duration // Total length of the audio.
}

// String returns a human-readable representation for logging.
func (b Buffer) String() string {
	return fmt.Sprintf("%s (%s)", b.Title, format.Duration(b.Duration))
}

// TitleKey converts a display title into the directory/file key used
// throughout the artifacts tree: lowercased, spaces replaced with
// underscores.
func TitleKey(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}

// Provider locates decoded audiobooks in the artifacts tree and probes
// their duration. Decoding itself is out of scope: a missing file is
// reported as ErrAudioNotFound, never decoded on demand.
type Provider struct {
	ffmpegPath   string
	artifactsDir string

	// Injectable dependencies (defaults to OS implementations).
	cmd     commandRunner
	statter fileStatter
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithProviderCommandRunner sets the command runner for the Provider.
func WithProviderCommandRunner(r commandRunner) ProviderOption {
	return func(p *Provider) { p.cmd = r }
}

// WithProviderFileStatter sets the file statter for the Provider.
func WithProviderFileStatter(s fileStatter) ProviderOption {
	return func(p *Provider) { p.statter = s }
}

// NewProvider creates a Provider rooted at artifactsDir.
func NewProvider(ffmpegPath, artifactsDir string, opts ...ProviderOption) (*Provider, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	if artifactsDir == "" {
		return nil, fmt.Errorf("artifactsDir cannot be empty")
	}

	p := &Provider{
		ffmpegPath:   ffmpegPath,
		artifactsDir: artifactsDir,
		cmd:          osCommandRunner{},
		statter:      osFileStatter{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// AudiobookDir returns the per-title directory under artifactsDir that
// holds the decoded audio and its clips subdirectory.
func AudiobookDir(artifactsDir, title string) string {
	return filepath.Join(artifactsDir, "audiobooks", TitleKey(title))
}

// AudiobookDir returns the per-title directory holding the decoded audio
// and its clips subdirectory.
func (p *Provider) AudiobookDir(title string) string {
	return AudiobookDir(p.artifactsDir, title)
}

// audioPath returns the expected path of the decoded audio file.
func (p *Provider) audioPath(title string) string {
	return filepath.Join(p.AudiobookDir(title), TitleKey(title)+".mp3")
}

// Open locates the decoded audio for the given title and probes its
// total duration. Returns ErrAudioNotFound if the file does not exist.
func (p *Provider) Open(ctx context.Context, title string) (Buffer, error) {
	path := p.audioPath(title)

	if _, err := p.statter.Stat(path); err != nil {
		return Buffer{}, fmt.Errorf("%w: %s (decode the audiobook first)", ErrAudioNotFound, path)
	}

	duration, err := p.probeDuration(ctx, path)
	if err != nil {
		return Buffer{}, fmt.Errorf("failed to probe audio duration: %w", err)
	}

	return Buffer{
		Title:    title,
		Path:     path,
		Duration: duration,
	}, nil
}

// probeDuration returns the duration of an audio file using ffmpeg.
func (p *Provider) probeDuration(ctx context.Context, audioPath string) (time.Duration, error) {
	// The -i flag with null output shows file info including duration.
	args := []string{
		"-i", audioPath,
		"-f", "null", "-",
	}
	output, err := p.cmd.CombinedOutput(ctx, p.ffmpegPath, args)
	if err != nil {
		// FFmpeg returns non-zero even when it successfully reads file
		// info, so we try to parse the output anyway.
		if len(output) == 0 {
			return 0, err
		}
	}

	return parseDurationFromFFmpegOutput(string(output))
}

// parseDurationFromFFmpegOutput extracts duration from FFmpeg stderr.
// Looks for: "Duration: HH:MM:SS.ms" or "time=HH:MM:SS.ms"
func parseDurationFromFFmpegOutput(output string) (time.Duration, error) {
	// Pattern: Duration: 00:05:23.45
	durationRe := regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)
	if matches := durationRe.FindStringSubmatch(output); matches != nil {
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	// Fallback pattern: time=00:05:23.45 (from progress output)
	timeRe := regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)
	// Find all matches and use the last one (final time).
	allMatches := timeRe.FindAllStringSubmatch(output, -1)
	if len(allMatches) > 0 {
		matches := allMatches[len(allMatches)-1]
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	return 0, ErrNoDuration
}

// parseTimeComponents converts HH:MM:SS.ms strings to Duration.
func parseTimeComponents(hours, minutes, seconds, fractional string) (time.Duration, error) {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)

	// Normalize fractional part to milliseconds.
	// Input may be 1-6+ digits (e.g., ".4", ".45", ".456", ".456789").
	frac, _ := strconv.Atoi(fractional)
	ms := frac
	switch n := len(fractional); {
	case n == 1:
		ms = frac * 100
	case n == 2:
		ms = frac * 10
	case n == 3:
		// Already milliseconds.
	case n > 3:
		// Truncate excess precision by dividing.
		for i := n; i > 3; i-- {
			ms /= 10
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// formatFFmpegTime formats a duration for FFmpeg -ss/-to arguments.
func formatFFmpegTime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}
