package output

import (
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"

	"payout-calc/core/batch"
	"payout-calc/core/types"
	"payout-calc/internal/errors"
)

func processor(t *testing.T) *batch.Processor {
	t.Helper()
	p, err := batch.NewProcessor(types.DefaultRateConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewProcessor returned error: %v", err)
	}
	return p
}

func cell(t *testing.T, s Sheet, row int, column string) string {
	t.Helper()
	i := slices.Index(s.Columns, column)
	if i < 0 {
		t.Fatalf("column %s not in sheet", column)
	}
	return s.Rows[row][i]
}

func TestPayoutSheetLayout(t *testing.T) {
	p := processor(t)
	records := []batch.Record{
		{Row: 1, Input: types.ProductInput{SKU: "SKU-001", SalePrice: 1045, Cost: 500, GSTRatePercent: 5, RoyaltyPercent: 10},
			Raw: map[string]string{ColSalePrice: "1045.00", ColCost: "500.00", ColGSTRate: "5", ColRoyalty: "10"}},
		{Row: 2, Input: types.ProductInput{SKU: "SKU-002"},
			Raw: map[string]string{ColSalePrice: "n/a", ColCost: "750", ColGSTRate: "12", ColRoyalty: "0"},
			Err: errors.Inputf("%s is not a number: %q", ColSalePrice, "n/a")},
	}
	var rows []batch.PayoutRow
	for r := range p.ProcessForward(slices.Values(records)) {
		rows = append(rows, batch.PresentPayout(r))
	}

	sheet := PayoutSheet(rows)
	if !slices.Equal(sheet.Columns, PayoutColumns) {
		t.Fatalf("unexpected columns %v", sheet.Columns)
	}
	if sheet.Columns[sheet.HighlightIndex()] != ColNetProfit {
		t.Fatalf("expected %s highlighted, got index %d", ColNetProfit, sheet.HighlightIndex())
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}

	if got := cell(t, sheet, 0, ColSalePrice); got != "1045.00" {
		t.Errorf("expected source cell echoed, got %q", got)
	}
	if got := cell(t, sheet, 0, ColNetProfit); got != "-4.37" {
		t.Errorf("expected net profit -4.37, got %q", got)
	}
	if got := cell(t, sheet, 0, ColStatus); got != "OK" {
		t.Errorf("expected OK status, got %q", got)
	}

	if got := cell(t, sheet, 1, ColSalePrice); got != "n/a" {
		t.Errorf("expected invalid cell echoed, got %q", got)
	}
	if got := cell(t, sheet, 1, ColNetProfit); got != "" {
		t.Errorf("expected empty net profit for invalid row, got %q", got)
	}
	if got := cell(t, sheet, 1, ColStatus); !strings.HasPrefix(got, "Error: invalid input") {
		t.Errorf("expected invalid input status, got %q", got)
	}
}

func TestPriceSheetLayout(t *testing.T) {
	p := processor(t)
	ceiling := 1200.0
	row := batch.PresentPrice(p.Price(types.ProductInput{SKU: "SKU-009", Cost: 500, TargetProfit: 100, GSTRatePercent: 5, RoyaltyPercent: 10, PriceCeiling: &ceiling}))

	sheet := PriceSheet([]batch.PriceRow{row})
	if sheet.Highlight != ColRequiredSalePrice || sheet.HighlightIndex() != 6 {
		t.Fatalf("expected %s highlighted at index 6, got %d", ColRequiredSalePrice, sheet.HighlightIndex())
	}
	if got := cell(t, sheet, 0, ColMRP); got != "1200" {
		t.Errorf("expected MRP 1200, got %q", got)
	}
	if got := cell(t, sheet, 0, ColRequiredSalePrice); got != "1265.06" {
		t.Errorf("expected required price 1265.06, got %q", got)
	}
	if got := cell(t, sheet, 0, ColDiscountPercent); got != "" {
		t.Errorf("expected no discount above MRP, got %q", got)
	}
	if got := cell(t, sheet, 0, ColStatus); got != "Error: Sale Price > MRP" {
		t.Errorf("unexpected status %q", got)
	}
	if sheet.Columns[len(sheet.Columns)-1] != ColStatus {
		t.Error("expected Status to be the last column")
	}
}

func TestTemplatesCarryRequiredColumns(t *testing.T) {
	for _, tc := range []struct {
		sheet    Sheet
		required []string
	}{
		{PayoutTemplate(), PayoutRequired},
		{PriceTemplate(), PriceRequired},
	} {
		for _, col := range tc.required {
			if !slices.Contains(tc.sheet.Columns, col) {
				t.Fatalf("%s is missing required column %s", tc.sheet.Name, col)
			}
		}
		for _, row := range tc.sheet.Rows {
			if len(row) != len(tc.sheet.Columns) {
				t.Fatalf("%s row has %d cells for %d columns", tc.sheet.Name, len(row), len(tc.sheet.Columns))
			}
		}
	}
}

func TestSheetHead(t *testing.T) {
	s := Sheet{Columns: []string{"a"}, Rows: [][]string{{"1"}, {"2"}, {"3"}}}
	if got := len(s.Head(2).Rows); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	if got := len(s.Head(10).Rows); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	if len(s.Rows) != 3 {
		t.Fatal("Head must not modify the original sheet")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "cli": FormatTable, "JSON": FormatJSON, "csv": FormatCSV} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.IsType(err, errors.TypeNotSupported) {
		t.Fatalf("expected NOT_SUPPORTED, got %v", err)
	}
	if f, err := FileFormat("out/results.XLSX"); err != nil || f != FormatXLSX {
		t.Fatalf("FileFormat = %q, %v", f, err)
	}
	if _, err := FileFormat("results.xls"); err == nil {
		t.Fatal("expected error for .xls")
	}
}
