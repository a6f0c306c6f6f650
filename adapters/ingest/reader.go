// Package ingest parses uploaded CSV and Excel files into tables.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"lemur/domain/table"
	"lemur/internal/errors"
)

// Reader handles reading Excel and CSV streams
type Reader struct {
	maxRows int // 0 means unlimited
}

// NewReader creates a reader with no row limit
func NewReader() *Reader {
	return &Reader{}
}

// NewReaderWithLimit caps how many data rows are read
func NewReaderWithLimit(maxRows int) *Reader {
	return &Reader{maxRows: maxRows}
}

// Supports reports whether the filename's extension is readable
func (r *Reader) Supports(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

// Read parses the stream according to the filename's extension
func (r *Reader) Read(src io.Reader, filename string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return r.readCSV(src)
	case ".xlsx", ".xls":
		return r.readExcel(src)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)))
	}
}

func (r *Reader) readCSV(src io.Reader) (*table.Table, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // validate shape ourselves for a clearer error

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("failed to parse CSV: %v", err))
	}
	return r.processRows(rows)
}

func (r *Reader) readExcel(src io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("failed to open Excel file: %v", err))
	}
	defer f.Close()

	// First sheet, whatever it is named
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("failed to read sheet %q: %v", sheets[0], err))
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into a typed table. The first row is
// the header; every column is coerced to numeric only when all of its
// non-empty cells parse as numbers.
func (r *Reader) processRows(rows [][]string) (*table.Table, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("file must have a header row and at least one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}

	dataRows := rows[1:]
	if r.maxRows > 0 && len(dataRows) > r.maxRows {
		dataRows = dataRows[:r.maxRows]
	}

	// Excel drops trailing empty cells; pad short rows, reject long ones
	cells := make([][]string, len(dataRows))
	for i, row := range dataRows {
		if len(row) > len(headers) {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d has %d cells but the header has %d columns", i+2, len(row), len(headers)))
		}
		padded := make([]string, len(headers))
		copy(padded, row)
		cells[i] = padded
	}

	columns := make([]table.Column, len(headers))
	for c, name := range headers {
		raw := make([]string, len(cells))
		for i := range cells {
			raw[i] = strings.TrimSpace(cells[i][c])
		}
		columns[c] = table.Column{Name: name, Values: coerceColumn(raw)}
	}

	return table.New(columns)
}

// coerceColumn types a raw string column. Numeric wins only when every
// non-empty cell parses; otherwise everything stays a string.
func coerceColumn(raw []string) []table.Value {
	numeric := true
	nonEmpty := 0
	for _, s := range raw {
		if s == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseFloat(stripThousands(s), 64); err != nil {
			numeric = false
			break
		}
	}
	if nonEmpty == 0 {
		numeric = false
	}

	values := make([]table.Value, len(raw))
	for i, s := range raw {
		if s == "" {
			values[i] = table.NewMissingValue()
			continue
		}
		if numeric {
			f, _ := strconv.ParseFloat(stripThousands(s), 64)
			values[i] = table.NewNumericValue(f)
			continue
		}
		values[i] = table.NewStringValue(s)
	}
	return values
}

// stripThousands removes comma separators from figures like "1,234.5"
func stripThousands(s string) string {
	if strings.Count(s, ",") == 0 {
		return s
	}
	// Only treat commas as separators in an otherwise numeric-looking cell
	candidate := strings.ReplaceAll(s, ",", "")
	if _, err := strconv.ParseFloat(candidate, 64); err == nil {
		return candidate
	}
	return s
}
