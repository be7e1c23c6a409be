package annotation

// NoteIndex maps raw start positions (ms) to note text for one title.
//
// Association is exact-match only: a note whose raw position differs
// from a clip's raw position by even one millisecond is silently
// orphaned. Annotation sources may round a note's and its clip's
// timestamps independently, so conceptually paired annotations can
// miss each other; the matching tolerance intended by the source is
// unspecified, so no fuzzy matching is attempted.
type NoteIndex map[int64]string

// BuildNoteIndex folds note records into an index keyed by RawStart.
// When two notes share a position the later record wins.
func BuildNoteIndex(notes []Record) NoteIndex {
	idx := make(NoteIndex, len(notes))
	for _, rec := range notes {
		idx[rec.RawStart] = rec.Text
	}
	return idx
}

// Lookup returns the note text for a window's raw start position.
// The second return reports whether a note was found.
func (idx NoteIndex) Lookup(w Window) (string, bool) {
	text, ok := idx[w.RawStart]
	return text, ok
}
