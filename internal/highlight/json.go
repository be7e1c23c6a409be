package highlight

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Output artifact names under the per-title dir.
const (
	outputDirName    = "transcriptions"
	ContentsFileName = "contents.json"
)

// OutputDir returns the transcription output dir for a title dir.
func OutputDir(titleDir string) string {
	return filepath.Join(titleDir, outputDirName)
}

// PersistedRecords returns the records that survive JSON persistence
// (non-empty text) and the count of dropped empty-text records.
func PersistedRecords(records []Record) (kept []Record, dropped int) {
	kept = make([]Record, 0, len(records))
	for _, r := range records {
		if r.Text == "" {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropped
}

// WriteContents persists records as indented JSON at path, dropping
// empty-text records. Returns how many were dropped so callers can log
// the count.
func WriteContents(path string, records []Record) (dropped int, err error) {
	kept, dropped := PersistedRecords(records)

	data, err := json.MarshalIndent(kept, "", "    ")
	if err != nil {
		return dropped, fmt.Errorf("encoding highlights: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return dropped, fmt.Errorf("writing highlights: %w", err)
	}
	return dropped, nil
}
