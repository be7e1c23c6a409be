package highlight_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ferrovax/go-highlights/internal/highlight"
)

func sampleRecords() []highlight.Record {
	return []highlight.Record{
		{
			Title:      "Dune",
			Author:     "Frank Herbert",
			SourceType: highlight.SourceType,
			Text:       "first passage",
			Label:      "clip1",
			Position:   100000,
		},
		{
			Title:      "Dune",
			Author:     "Frank Herbert",
			Note:       "the golden path",
			SourceType: highlight.SourceType,
			Text:       "",
			Label:      "the golden path",
			Position:   250000,
		},
	}
}

// ---------------------------------------------------------------------------
// OutputDir
// ---------------------------------------------------------------------------

func TestOutputDir(t *testing.T) {
	t.Parallel()

	got := highlight.OutputDir("/artifacts/audiobooks/dune")
	want := filepath.Join("/artifacts/audiobooks/dune", "transcriptions")
	if got != want {
		t.Errorf("OutputDir() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// PersistedRecords
// ---------------------------------------------------------------------------

func TestPersistedRecords(t *testing.T) {
	t.Parallel()

	kept, dropped := highlight.PersistedRecords(sampleRecords())
	if len(kept) != 1 {
		t.Fatalf("kept %d records, want 1", len(kept))
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if kept[0].Text != "first passage" {
		t.Errorf("kept[0].Text = %q, want the non-empty record", kept[0].Text)
	}
}

// ---------------------------------------------------------------------------
// WriteContents
// ---------------------------------------------------------------------------

func TestWriteContents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), highlight.ContentsFileName)
	dropped, err := highlight.WriteContents(path, sampleRecords())
	if err != nil {
		t.Fatalf("WriteContents() error = %v", err)
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d persisted records, want 1", len(decoded))
	}

	entry := decoded[0]
	for _, key := range []string{"title", "author", "source_type", "text"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("output missing key %q", key)
		}
	}
	// Empty notes are omitted; labels and positions never persist.
	for _, key := range []string{"note", "label", "position"} {
		if _, ok := entry[key]; ok {
			t.Errorf("output has unexpected key %q", key)
		}
	}
	if entry["source_type"] != highlight.SourceType {
		t.Errorf("source_type = %v, want %q", entry["source_type"], highlight.SourceType)
	}
}

func TestWriteContents_NoteKeyForNotedRecord(t *testing.T) {
	t.Parallel()

	records := []highlight.Record{{
		Title:      "Dune",
		Author:     "Frank Herbert",
		Note:       "the golden path",
		SourceType: highlight.SourceType,
		Text:       "a passage",
	}}

	path := filepath.Join(t.TempDir(), highlight.ContentsFileName)
	if _, err := highlight.WriteContents(path, records); err != nil {
		t.Fatalf("WriteContents() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded[0]["note"] != "the golden path" {
		t.Errorf("note = %v, want %q", decoded[0]["note"], "the golden path")
	}
}

func TestWriteContents_AllEmpty(t *testing.T) {
	t.Parallel()

	records := []highlight.Record{{Title: "Dune", SourceType: highlight.SourceType}}

	path := filepath.Join(t.TempDir(), highlight.ContentsFileName)
	dropped, err := highlight.WriteContents(path, records)
	if err != nil {
		t.Fatalf("WriteContents() error = %v", err)
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	var decoded []highlight.Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("got %d records, want 0", len(decoded))
	}
}
