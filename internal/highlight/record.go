// Package highlight turns extracted clips into transcribed highlight
// records and persists them: an ordered record list for JSON output and
// a label-keyed view for the spreadsheet renderer.
package highlight

import "strings"

// SourceType identifies where highlight records originate. Downstream
// importers (e.g. Readwise-style tooling) key on this value.
const SourceType = "audible_bookmark_extractor"

// Meta is the per-title metadata stamped onto every record.
type Meta struct {
	Title  string
	Author string
}

// Record is one transcribed highlight. Label and Position are carried
// for rendering and ordering but stay out of the persisted JSON.
type Record struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Note       string `json:"note,omitempty"`
	SourceType string `json:"source_type"`
	Text       string `json:"text"`

	Label    string `json:"-"`
	Position int64  `json:"-"`
}

// noteForLabel returns the note text a clip label carries. Labels are
// note text unless the extractor fell back to a clip<N> counter, so a
// genuine note that happens to start with "clip" is misread as
// unlabeled. Known precision limitation.
func noteForLabel(label string) string {
	if strings.HasPrefix(label, "clip") {
		return ""
	}
	return label
}
