// Package sheet renders transcribed highlights into a styled workbook,
// one sheet per title, for readers who want the clips next to their
// notes without touching the JSON output.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ferrovax/go-highlights/internal/highlight"
)

// WorkbookFileName is the default name for the rendered workbook.
const WorkbookFileName = "All_Transcriptions.xlsx"

// Layout constants matching the rendered style: a wide wrapped
// transcription column next to a narrower note column.
const (
	maxSheetNameLen = 31

	headerNoteCol          = "Clip Note"
	headerTranscriptionCol = "Transcription"

	noteColWidth          = 50
	transcriptionColWidth = 100
	dataRowHeight         = 100
)

// SheetName derives a legal sheet name from a title key: truncated to
// the workbook limit, with characters the format rejects stripped.
func SheetName(titleKey string) string {
	runes := []rune(titleKey)
	if len(runes) > maxSheetNameLen {
		runes = runes[:maxSheetNameLen]
	}
	return strings.NewReplacer(":", "", "?", "").Replace(string(runes))
}

// Renderer accumulates one sheet per title into a single workbook.
type Renderer struct {
	file        *excelize.File
	headerStyle int
	cellStyle   int
	added       int
}

// NewRenderer creates an empty workbook with the shared styles.
func NewRenderer() (*Renderer, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFA500"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating cell style: %w", err)
	}

	return &Renderer{
		file:        f,
		headerStyle: headerStyle,
		cellStyle:   cellStyle,
	}, nil
}

// AddTitle renders one title's label view as a new sheet.
func (r *Renderer) AddTitle(titleKey string, view *highlight.LabelView) error {
	name := SheetName(titleKey)
	if name == "" {
		return fmt.Errorf("empty sheet name for title %q", titleKey)
	}

	idx, err := r.file.NewSheet(name)
	if err != nil {
		return fmt.Errorf("creating sheet %q: %w", name, err)
	}
	if r.added == 0 {
		r.file.SetActiveSheet(idx)
	}
	r.added++

	if err := r.file.SetColWidth(name, "A", "A", noteColWidth); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := r.file.SetColWidth(name, "B", "B", transcriptionColWidth); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := r.setCell(name, "A1", headerNoteCol, r.headerStyle); err != nil {
		return err
	}
	if err := r.setCell(name, "B1", headerTranscriptionCol, r.headerStyle); err != nil {
		return err
	}

	row := 2
	for _, label := range view.Labels() {
		text, _ := view.Text(label)
		noteCell := fmt.Sprintf("A%d", row)
		textCell := fmt.Sprintf("B%d", row)

		if err := r.setCell(name, noteCell, label, r.cellStyle); err != nil {
			return err
		}
		if err := r.setCell(name, textCell, text, r.cellStyle); err != nil {
			return err
		}
		if err := r.file.SetRowHeight(name, row, dataRowHeight); err != nil {
			return fmt.Errorf("sizing row %d: %w", row, err)
		}
		row++
	}

	return nil
}

func (r *Renderer) setCell(sheet, cell string, value any, style int) error {
	if err := r.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("writing cell %s: %w", cell, err)
	}
	if err := r.file.SetCellStyle(sheet, cell, cell, style); err != nil {
		return fmt.Errorf("styling cell %s: %w", cell, err)
	}
	return nil
}

// Save writes the workbook to path. The format's default sheet is
// dropped once real sheets exist.
func (r *Renderer) Save(path string) error {
	if r.added == 0 {
		return fmt.Errorf("no titles rendered")
	}
	if err := r.file.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}
	if err := r.file.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// Close releases the underlying workbook resources.
func (r *Renderer) Close() error {
	return r.file.Close()
}
