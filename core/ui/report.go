// Package ui - Result rendering for single calculations and bulk runs
package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"payout-calc/core/batch"
	"payout-calc/core/output"
	"payout-calc/core/types"
)

// DefaultPreviewRows is how many result rows a bulk report shows.
const DefaultPreviewRows = 10

// box prints label/value lines inside a rounded frame.
func (w *Writer) box(lines [][2]string, valueColor string) {
	labelWidth, valueWidth := 0, 0
	for _, l := range lines {
		labelWidth = max(labelWidth, utf8.RuneCountInString(l[0]))
		valueWidth = max(valueWidth, utf8.RuneCountInString(l[1]))
	}
	inner := labelWidth + valueWidth + 6

	w.Println("%s", w.color(Bold, "╭"+strings.Repeat("─", inner)+"╮"))
	for _, l := range lines {
		label := fmt.Sprintf("  %-*s  ", labelWidth+1, l[0]+":")
		value := fmt.Sprintf("%*s ", valueWidth, l[1])
		w.Println("%s%s%s%s", w.color(Bold, "│"), label, w.color(valueColor, value), w.color(Bold, "│"))
	}
	w.Println("%s", w.color(Bold, "╰"+strings.Repeat("─", inner)+"╯"))
}

func profitColor(d *decimal.Decimal) string {
	if d != nil && d.IsNegative() {
		return Red
	}
	return Green
}

// PayoutSummary renders a single settlement breakdown.
func (w *Writer) PayoutSummary(row batch.PayoutRow, rates types.RateConfig) {
	w.Header("Settlement Breakdown")
	if row.Status.IsFailure() {
		w.Error("%s: %s", row.Status.Label(), row.Error)
		return
	}

	w.box([][2]string{
		{"Net Profit", MoneyOrNA(row.NetProfit)},
		{"Final Settled Amount", MoneyOrNA(row.FinalSettledAmount)},
	}, profitColor(row.NetProfit))
	w.Println("")

	in := row.Input
	table := w.NewTable("Component", "Rate", "Amount").Highlight(2)
	table.AddRow("Sale Price", "", Money(decimal.NewFromFloat(in.SalePrice).Round(batch.Precision)))
	table.AddRow("Taxable Amount", "", MoneyOrNA(row.TaxableAmount))
	table.AddRow("GST", Percent(in.GSTRatePercent/100), MoneyOrNA(row.GSTValue))
	table.AddRow("Flat Deduction", Percent(rates.FlatRate), MoneyOrNA(row.FlatDeductionAmount))
	table.AddRow("Royalty Fee", Percent(in.RoyaltyPercent/100), MoneyOrNA(row.RoyaltyFeeAmount))
	table.AddRow("TDS (on taxable)", Percent(rates.TDSRate), MoneyOrNA(row.TDSAmount))
	table.AddRow("TCS (on GST)", Percent(rates.TCSRate), MoneyOrNA(row.TCSAmount))
	table.AddRow("Total Deductions", "", MoneyOrNA(row.TotalDeductions))
	table.Render()

	if row.NetProfit != nil && row.NetProfit.IsNegative() {
		w.Println("")
		w.Warning("This sale loses %s against a product cost of %s",
			Money(row.NetProfit.Neg()), Money(decimal.NewFromFloat(in.Cost).Round(batch.Precision)))
	}
}

// PriceSummary renders a solved price. check is the payout recomputed at the
// solved price and is shown as a verification when present.
func (w *Writer) PriceSummary(row batch.PriceRow, check *batch.PayoutRow) {
	w.Header("Required Sale Price")
	in := row.Input

	switch row.Status {
	case types.StatusInvalidInput, types.StatusComputationFailure:
		w.Error("%s: %s", row.Status.Label(), row.Error)
		return
	case types.StatusProfitNotPossible:
		w.Error("%s: deductions take the whole sale price at these rates", row.Status.Label())
		return
	}

	lines := [][2]string{{"Required Sale Price", MoneyOrNA(row.RequiredSalePrice)}}
	if in.PriceCeiling != nil {
		lines = append(lines, [2]string{"MRP", Money(decimal.NewFromFloat(*in.PriceCeiling).Round(batch.Precision))})
	}
	if row.DiscountPercent != nil {
		lines = append(lines, [2]string{"Discount vs MRP", row.DiscountPercent.StringFixed(batch.Precision) + "%"})
	}
	lines = append(lines, [2]string{"Net Payout", MoneyOrNA(row.NetPayoutAmount)})
	w.box(lines, Green)

	if row.Status == types.StatusPriceExceedsCeiling {
		w.Println("")
		w.Warning("%s: the required price is above the MRP", row.Status.Label())
	}

	if check == nil {
		return
	}
	w.Println("")
	w.SubHeader("Verification")
	table := w.NewTable("Check", "Amount").Highlight(1)
	table.AddRow("Sale Price", MoneyOrNA(row.RequiredSalePrice))
	table.AddRow("Final Settled Amount", MoneyOrNA(check.FinalSettledAmount))
	table.AddRow("Product Cost", Money(decimal.NewFromFloat(in.Cost).Round(batch.Precision)))
	table.AddRow("Net Profit", MoneyOrNA(check.NetProfit))
	table.AddRow("Target Net Profit", Money(decimal.NewFromFloat(in.TargetProfit).Round(batch.Precision)))
	table.Render()
}

// SheetTable renders the first rows of a result sheet with its primary
// column highlighted.
func (w *Writer) SheetTable(sheet output.Sheet, limit int) {
	head := sheet.Head(limit)
	table := w.NewTable(head.Columns...).Highlight(head.HighlightIndex())
	for _, r := range head.Rows {
		table.AddRow(r...)
	}
	table.Render()
	if len(head.Rows) < len(sheet.Rows) {
		w.Println("%s", w.color(Dim, fmt.Sprintf("Showing %d of %d rows", len(head.Rows), len(sheet.Rows))))
	}
}

// BatchReport renders a bulk run: preview, status counts and totals.
func (w *Writer) BatchReport(sheet output.Sheet, s batch.Summary, preview int) {
	w.Header(sheet.Name)
	if len(sheet.Rows) == 0 {
		w.Warning("No rows to process")
		return
	}
	w.SheetTable(sheet, preview)
	w.Println("")

	w.Success("%d products processed", s.Processed)
	for _, st := range []types.Status{
		types.StatusOK,
		types.StatusPriceExceedsCeiling,
		types.StatusProfitNotPossible,
		types.StatusInvalidInput,
		types.StatusComputationFailure,
	} {
		n := s.ByStatus[st]
		if n == 0 || st == types.StatusOK {
			continue
		}
		if st.IsFailure() {
			w.Error("%d rows: %s", n, st.Label())
		} else {
			w.Warning("%d rows: %s", n, st.Label())
		}
	}
	if s.Direction == types.DirectionForward {
		total := s.TotalNetProfit
		w.Println("  Total Net Profit: %s", w.color(profitColor(&total), Money(total)))
	}
}
