// internal/workbook/workbook.go
//
// This package turns an uploaded spreadsheet document into the in-memory
// form the review screen renders: an ordered list of named sheets, each a
// grid of string cells. Rendering is header-driven — row 0 of every sheet
// is treated as column labels and data rows are padded or truncated to
// the header's width.

package workbook

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseError reports a document that could not be ingested: an unreadable
// container, a sheet whose cells could not be read, or a document with no
// sheets at all.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workbook: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("workbook: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Sheet is one tab of an ingested document. Rows hold cell values exactly
// as read; row 0 is the header by convention. Sheet names are not
// required to be unique.
type Sheet struct {
	Name string
	Rows [][]string
}

// Header returns the label row, or nil for an empty sheet.
func (s Sheet) Header() []string {
	if len(s.Rows) == 0 {
		return nil
	}
	return s.Rows[0]
}

// HeaderLabels returns the display labels for each column. Blank header
// cells fall back to a positional "Column N" label.
func (s Sheet) HeaderLabels() []string {
	header := s.Header()
	labels := make([]string, len(header))
	for i, cell := range header {
		if strings.TrimSpace(cell) == "" {
			labels[i] = fmt.Sprintf("Column %d", i+1)
			continue
		}
		labels[i] = cell
	}
	return labels
}

// ColumnCount is the header row's length, which drives rendering width.
func (s Sheet) ColumnCount() int {
	return len(s.Header())
}

// DataRowCount returns the number of rows beneath the header.
func (s Sheet) DataRowCount() int {
	if len(s.Rows) <= 1 {
		return 0
	}
	return len(s.Rows) - 1
}

// DataRow returns data row i (0-based, header excluded) shaped to the
// header's column count: short rows are padded with empty strings and
// extra trailing cells beyond the header width are dropped.
func (s Sheet) DataRow(i int) []string {
	if i < 0 || i >= s.DataRowCount() {
		return nil
	}
	width := s.ColumnCount()
	row := s.Rows[i+1]
	shaped := make([]string, width)
	for col := 0; col < width; col++ {
		if col < len(row) {
			shaped[col] = row[col]
		}
	}
	return shaped
}

// Workbook is the result of one successful ingestion: at least one sheet,
// with exactly one selected for rendering at a time.
type Workbook struct {
	sheets   []Sheet
	selected int
}

// FromSheets builds a workbook directly from parsed sheets. It enforces
// the same invariant as Ingest: a workbook always has at least one
// sheet, so the selection index is always valid.
func FromSheets(sheets []Sheet) (*Workbook, error) {
	if len(sheets) == 0 {
		return nil, &ParseError{Reason: "document has no sheets"}
	}
	return &Workbook{sheets: sheets}, nil
}

// Ingest parses a spreadsheet document from r. It fails with a ParseError
// when the container is unreadable or contains no sheets; on failure no
// workbook is produced.
func Ingest(r io.Reader) (*Workbook, error) {
	doc, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Reason: "open document", Err: err}
	}
	defer doc.Close()

	names := doc.GetSheetList()
	if len(names) == 0 {
		return nil, &ParseError{Reason: "document has no sheets"}
	}
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := doc.GetRows(name)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("read sheet %q", name), Err: err}
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return FromSheets(sheets)
}

// IngestFile reads and ingests the document at path.
func IngestFile(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Reason: "open file", Err: err}
	}
	defer f.Close()
	return Ingest(f)
}

// Sheets returns the sheets in document order.
func (w *Workbook) Sheets() []Sheet { return w.sheets }

// SheetCount returns the number of sheets.
func (w *Workbook) SheetCount() int { return len(w.sheets) }

// Selected returns the index of the sheet currently shown.
func (w *Workbook) Selected() int { return w.selected }

// SelectedSheet returns the sheet currently shown.
func (w *Workbook) SelectedSheet() Sheet { return w.sheets[w.selected] }

// Select switches the shown sheet. Out-of-range indexes are rejected so
// the selection always stays valid.
func (w *Workbook) Select(i int) error {
	if i < 0 || i >= len(w.sheets) {
		return fmt.Errorf("workbook: sheet index %d out of range [0,%d)", i, len(w.sheets))
	}
	w.selected = i
	return nil
}

// SelectNext cycles forward through the sheet tabs.
func (w *Workbook) SelectNext() {
	w.selected = (w.selected + 1) % len(w.sheets)
}

// SelectPrev cycles backward through the sheet tabs.
func (w *Workbook) SelectPrev() {
	w.selected = (w.selected - 1 + len(w.sheets)) % len(w.sheets)
}
