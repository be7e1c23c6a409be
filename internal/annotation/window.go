package annotation

import "fmt"

// Default window parameters, in milliseconds.
const (
	// DefaultPreRoll is subtracted from the raw start position.
	// Bookmarks lag the passage of interest by however long it takes
	// to dig up the phone and press the button; ten seconds of
	// pre-roll recovers that.
	DefaultPreRoll = 10000

	// DefaultPostRoll is added after the raw end position. Zero by
	// default: consumer workflows bookmark at or after the passage.
	DefaultPostRoll = 0

	// DefaultSpan is the assumed clip length in milliseconds when the
	// record reports no end position, and the extension applied to
	// degenerate zero-length windows.
	DefaultSpan = 30000
)

// Window is a half-open [Start, End) millisecond range in a title's
// audio timeline, derived from one clip or bookmark record.
//
// Invariants: End > Start and Start >= 0. RawStart is the record's
// unmodified start position, retained as the join key back to notes.
type Window struct {
	RawStart int64
	Start    int64
	End      int64
}

// Duration returns the window length in milliseconds.
func (w Window) Duration() int64 {
	return w.End - w.Start
}

// String returns a short human-readable representation for logging.
func (w Window) String() string {
	return fmt.Sprintf("window @%dms [%dms, %dms)", w.RawStart, w.Start, w.End)
}

// ComputeWindow converts a clip or bookmark record into a Window.
//
// The raw end defaults to rawStart+DefaultSpan when the record reports
// none. Pre/post roll are applied, then a degenerate zero-length
// window (pre and post roll cancelling identical raw bounds) is
// extended by DefaultSpan, and finally the start is clamped to zero.
// The degenerate check runs before clamping: a window that only
// collapses because of the clamp keeps its natural end. A window
// whose end still does not exceed the clamped start (an annotation
// right at position zero with an end at or before zero) gets the
// default span so End > Start always holds.
//
// Arithmetic only, no failure modes. Ends past the audio's true
// length are the extractor's concern.
func ComputeWindow(rec Record, preRollMs, postRollMs int64) Window {
	rawStart := rec.RawStart
	rawEnd := rec.RawEnd
	if !rec.HasEnd {
		rawEnd = rawStart + DefaultSpan
	}

	start := rawStart - preRollMs
	end := rawEnd + postRollMs

	if start == end {
		end += DefaultSpan
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		end = start + DefaultSpan
	}

	return Window{RawStart: rawStart, Start: start, End: end}
}
