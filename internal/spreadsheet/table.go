// Package spreadsheet reads the first sheet of an uploaded workbook into a
// header row plus data rows of plain strings.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("spreadsheet: unsupported format")
	ErrNoSheet           = errors.New("spreadsheet: workbook has no sheets")
	ErrSheetTooLarge     = errors.New("spreadsheet: sheet too large")
)

// Limits applied to repeated rows and columns. ODS files routinely declare
// a million repeated empty rows; only real content is materialized.
const (
	maxColumns = 1024
	maxRows    = 1 << 20
	maxCells   = 1 << 21
)

// Table is the first sheet of a workbook. Rows never include the header.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell returns the value at col in row, or "" when the row is short
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Column returns the index of the header with exactly this text, or -1.
// When the header repeats, the first occurrence wins.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// newTable takes the first non-empty row as the header
func newTable(sheet string, rows [][]string) *Table {
	t := &Table{Sheet: sheet}
	for len(rows) > 0 && isEmptyRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return t
	}
	t.Header = rows[0]
	t.Rows = rows[1:]
	return t
}

// Supported reports whether ext (with leading dot, any case) can be read
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".ods", ".xlsx", ".csv":
		return true
	}
	return false
}

// Read parses the first sheet of a workbook whose format is given by ext
func Read(r io.ReaderAt, size int64, ext string) (*Table, error) {
	switch strings.ToLower(ext) {
	case ".ods":
		return ReadODS(r, size)
	case ".xlsx":
		return ReadXLSX(io.NewSectionReader(r, 0, size))
	case ".csv":
		return ReadCSV(io.NewSectionReader(r, 0, size))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// ReadFile opens path and parses it according to its extension
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return Read(f, info.Size(), filepath.Ext(path))
}
