// Package tabular provides the spreadsheet adapter for bulk runs.
// It reads CSV and XLSX uploads into tables, checks the declared columns,
// turns rows into batch records and writes result sheets back out.
package tabular

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"payout-calc/core/output"
	"payout-calc/internal/errors"
)

// Table is a header row plus data rows, as read from a file.
type Table struct {
	Columns []string
	Rows    [][]string

	// RowNumbers holds each row's 1-based position among the source data
	// rows; blank rows are dropped but still counted
	RowNumbers []int

	index map[string]int
}

func newTable(header []string, rows [][]string) *Table {
	t := &Table{Columns: make([]string, len(header)), index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Columns[i] = h
		if _, dup := t.index[h]; !dup && h != "" {
			t.index[h] = i
		}
	}
	for i, r := range rows {
		if !blank(r) {
			t.Rows = append(t.Rows, r)
			t.RowNumbers = append(t.RowNumbers, i+1)
		}
	}
	return t
}

// Has reports whether the table carries the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Cell returns a row's value for a column, trimmed. Short rows read as empty.
func (t *Table) Cell(row []string, column string) (string, bool) {
	i, ok := t.index[column]
	if !ok {
		return "", false
	}
	if i >= len(row) {
		return "", true
	}
	return strings.TrimSpace(row[i]), true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ReadFile opens a .csv or .xlsx file and reads its first sheet.
func ReadFile(path string) (*Table, error) {
	format, err := output.FileFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "opening "+path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Read parses a CSV or XLSX stream. The first row is the header.
func Read(r io.Reader, format output.Format) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case output.FormatCSV:
		records, err = readCSV(r)
	case output.FormatXLSX:
		records, err = readXLSX(r)
	default:
		return nil, errors.NotSupported("reading " + string(format))
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || blank(records[0]) {
		return nil, errors.Input("file has no header row")
	}
	return newTable(records[0], records[1:]), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Parsing("reading csv", err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Parsing("opening workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Input("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Parsing("reading sheet "+sheets[0], err)
	}
	return rows, nil
}

// ReadBytes is Read over an in-memory upload.
func ReadBytes(data []byte, format output.Format) (*Table, error) {
	return Read(bytes.NewReader(data), format)
}

// RequireColumns checks that every declared column is present and reports
// all the missing ones at once.
func RequireColumns(t *Table, required []string) error {
	var missing []string
	for _, c := range required {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.Inputf("missing required columns: %s", strings.Join(missing, ", ")).
			WithContext("missing", missing)
	}
	return nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
