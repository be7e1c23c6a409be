package annotation_test

import (
	"testing"

	"github.com/ferrovax/go-highlights/internal/annotation"
)

// ---------------------------------------------------------------------------
// NoteIndex - exact-match association, last-write-wins
// ---------------------------------------------------------------------------

func TestBuildNoteIndex_LastWriteWins(t *testing.T) {
	t.Parallel()

	notes := []annotation.Record{
		{Kind: annotation.KindNote, RawStart: 1000, Text: "first"},
		{Kind: annotation.KindNote, RawStart: 2000, Text: "other"},
		{Kind: annotation.KindNote, RawStart: 1000, Text: "second"},
	}

	idx := annotation.BuildNoteIndex(notes)

	if len(idx) != 2 {
		t.Fatalf("len(idx) = %d, want 2", len(idx))
	}
	text, ok := idx.Lookup(annotation.Window{RawStart: 1000})
	if !ok || text != "second" {
		t.Errorf("Lookup(1000) = (%q, %v), want (\"second\", true)", text, ok)
	}
}

func TestNoteIndex_ExactMatchOnly(t *testing.T) {
	t.Parallel()

	idx := annotation.BuildNoteIndex([]annotation.Record{
		{Kind: annotation.KindNote, RawStart: 50000, Text: "a great passage"},
	})

	tests := []struct {
		name     string
		rawStart int64
		wantText string
		wantOK   bool
	}{
		{name: "exact position matches", rawStart: 50000, wantText: "a great passage", wantOK: true},
		{name: "one millisecond later orphans the note", rawStart: 50001, wantOK: false},
		{name: "one millisecond earlier orphans the note", rawStart: 49999, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text, ok := idx.Lookup(annotation.Window{RawStart: tt.rawStart})
			if ok != tt.wantOK || text != tt.wantText {
				t.Errorf("Lookup(%d) = (%q, %v), want (%q, %v)",
					tt.rawStart, text, ok, tt.wantText, tt.wantOK)
			}
		})
	}
}

func TestBuildNoteIndex_Empty(t *testing.T) {
	t.Parallel()

	idx := annotation.BuildNoteIndex(nil)
	if _, ok := idx.Lookup(annotation.Window{RawStart: 0}); ok {
		t.Error("Lookup on empty index reported a match")
	}
}
