// Package output provides output formats and the export layout of results.
// This package produces human and machine-readable outputs.
package output

import (
	"path/filepath"
	"strings"

	"payout-calc/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable terminal table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatCSV is comma-separated values
	FormatCSV Format = "csv"

	// FormatXLSX is an Excel workbook
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	case "cli", "":
		return FormatTable, nil
	}
	return "", errors.NotSupported("output format " + s)
}

// FileFormat picks the file format from a path's extension.
func FileFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", errors.NotSupported("file type " + filepath.Ext(path) + " (use .csv or .xlsx)")
}

// IsFile reports whether the format is written to a file rather than the terminal.
func (f Format) IsFile() bool {
	return f == FormatCSV || f == FormatXLSX
}
