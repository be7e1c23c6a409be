package audible

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultSpan is the assumed clip length in milliseconds when a record
// reports no end position.
const defaultSpanMs = 30000

// BookmarkExport is one row of the raw bookmark dump.
type BookmarkExport struct {
	BookTitle     string `json:"book_title"`
	ASIN          string `json:"asin"`
	Type          string `json:"type"`
	StartPosition int64  `json:"start_position"`
	EndPosition   int64  `json:"end_position"`
	Text          string `json:"text"`
	Note          string `json:"note"`
	CreationTime  string `json:"creation_time"`
}

// BuildBookmarkExport flattens a title's raw records into export rows.
// Records without an end position get the default span applied.
func BuildBookmarkExport(book Book, records []RawRecord) []BookmarkExport {
	rows := make([]BookmarkExport, len(records))
	for i, r := range records {
		end := r.EndPosition
		if !r.HasEnd {
			end = r.StartPosition + defaultSpanMs
		}
		rows[i] = BookmarkExport{
			BookTitle:     book.Title,
			ASIN:          book.ASIN,
			Type:          r.Type,
			StartPosition: r.StartPosition,
			EndPosition:   end,
			Text:          r.Text,
			Note:          r.Note,
			CreationTime:  r.CreationTime,
		}
	}
	return rows
}

// WriteBookmarks persists export rows as indented JSON at path.
func WriteBookmarks(path string, rows []BookmarkExport) error {
	if rows == nil {
		rows = []BookmarkExport{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bookmarks: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	return nil
}
