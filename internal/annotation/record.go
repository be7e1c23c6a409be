// Package annotation models user-created audiobook annotations (notes,
// clips, bookmarks) and the pure logic that turns them into clip
// windows: classification by kind, window arithmetic with pre/post
// roll, and position-keyed note association.
package annotation

import "fmt"

// Kind identifies the type of an annotation record.
type Kind int

const (
	// KindUnknown marks records whose wire tag is not recognized.
	// Unknown records are ignored by Classify, never an error.
	KindUnknown Kind = iota

	// KindNote is a free-text note attached to a position.
	KindNote

	// KindClip is a user-created audio clip with a start and end position.
	KindClip

	// KindBookmark is a single-position marker without an end.
	KindBookmark
)

// Wire tags as reported by the annotation service.
const (
	tagNote     = "audible.note"
	tagClip     = "audible.clip"
	tagBookmark = "audible.bookmark"
)

// ParseKind maps a wire tag to a Kind. Unrecognized tags map to KindUnknown.
func ParseKind(tag string) Kind {
	switch tag {
	case tagNote:
		return KindNote
	case tagClip:
		return KindClip
	case tagBookmark:
		return KindBookmark
	default:
		return KindUnknown
	}
}

// String returns the wire tag for known kinds, "unknown" otherwise.
func (k Kind) String() string {
	switch k {
	case KindNote:
		return tagNote
	case KindClip:
		return tagClip
	case KindBookmark:
		return tagBookmark
	default:
		return "unknown"
	}
}

// Record is one raw annotation as fetched for a title. Records are
// immutable once fetched and live only for the duration of one
// pipeline run.
type Record struct {
	Kind Kind

	// RawStart is the annotation position in milliseconds.
	RawStart int64

	// RawEnd is the reported end position in milliseconds.
	// Valid only when HasEnd is true; bookmarks typically report none.
	RawEnd int64
	HasEnd bool

	// Text is the note body for KindNote records, empty otherwise.
	Text string
}

// String returns a short human-readable representation for logging.
func (r Record) String() string {
	if r.HasEnd {
		return fmt.Sprintf("%s @%dms-%dms", r.Kind, r.RawStart, r.RawEnd)
	}
	return fmt.Sprintf("%s @%dms", r.Kind, r.RawStart)
}

// Classify partitions records into notes and clips/bookmarks, each
// preserving the relative input order. Records of unrecognized kind
// are dropped silently. The input order must be the stable order
// returned by the annotation source so downstream labeling stays
// reproducible.
func Classify(records []Record) (notes, clips []Record) {
	for _, rec := range records {
		switch rec.Kind {
		case KindNote:
			notes = append(notes, rec)
		case KindClip, KindBookmark:
			clips = append(clips, rec)
		}
	}
	return notes, clips
}
