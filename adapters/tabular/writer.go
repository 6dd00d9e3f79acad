package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"payout-calc/core/output"
	"payout-calc/internal/errors"
)

// HighlightColor fills the primary result column in workbooks.
const HighlightColor = "FFFF00"

// WriteFile writes a sheet as CSV or XLSX depending on the path's extension.
func WriteFile(path string, sheet output.Sheet) error {
	format, err := output.FileFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.TypeInternal, "creating "+path, err)
	}
	defer f.Close()

	if format == output.FormatXLSX {
		err = WriteXLSX(f, sheet)
	} else {
		err = WriteCSV(f, sheet)
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.TypeInternal, "closing "+path, err)
	}
	return nil
}

// WriteCSV writes the header and rows in column order.
func WriteCSV(w io.Writer, sheet output.Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Columns); err != nil {
		return errors.Wrap(errors.TypeInternal, "write csv header", err)
	}
	for _, row := range sheet.Rows {
		if err := cw.Write(row); err != nil {
			return errors.Wrap(errors.TypeInternal, "write csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.TypeInternal, "flush csv", err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook. Numeric cells are stored as
// numbers and the highlighted column's data cells are filled yellow.
func WriteXLSX(w io.Writer, sheet output.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sheet.Name)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return errors.Wrap(errors.TypeInternal, "naming sheet", err)
	}

	text := map[int]bool{slices.Index(sheet.Columns, output.ColSKU): true}
	if err := setRow(f, name, 1, sheet.Columns, nil); err != nil {
		return err
	}
	for i, row := range sheet.Rows {
		if err := setRow(f, name, i+2, row, text); err != nil {
			return err
		}
	}

	if col := sheet.HighlightIndex(); col >= 0 && len(sheet.Rows) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{HighlightColor}},
			NumFmt: 2,
		})
		if err != nil {
			return errors.Wrap(errors.TypeInternal, "creating highlight style", err)
		}
		top, _ := excelize.CoordinatesToCellName(col+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(col+1, len(sheet.Rows)+1)
		if err := f.SetCellStyle(name, top, bottom, style); err != nil {
			return errors.Wrap(errors.TypeInternal, "highlighting column", err)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(errors.TypeInternal, "writing workbook", err)
	}
	return nil
}

// setRow writes one row starting at column A. Cells that parse as numbers
// are stored as numbers unless their column is listed in text.
func setRow(f *excelize.File, sheet string, n int, cells []string, text map[int]bool) error {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
		if text == nil || text[i] {
			continue
		}
		if v, ok := ParseNumber(c); ok && !strings.Contains(c, ",") {
			values[i] = v
		}
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return errors.Wrap(errors.TypeInternal, "addressing row", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrap(errors.TypeInternal, "writing row", err)
	}
	return nil
}

// sheetName keeps a name within the 31 characters a worksheet allows.
func sheetName(s string) string {
	if s == "" {
		return "Sheet1"
	}
	if r := []rune(s); len(r) > 31 {
		return string(r[:31])
	}
	return s
}
