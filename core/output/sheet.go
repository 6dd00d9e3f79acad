package output

import (
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"payout-calc/core/batch"
	"payout-calc/core/types"
)

// Spreadsheet column names shared by templates, imports and exports.
const (
	ColSKU               = "Product_SKU"
	ColSalePrice         = "Given_Sale_Price"
	ColCost              = "Product_Cost"
	ColTargetProfit      = "Target_Net_Profit"
	ColGSTRate           = "GST_Rate_Percent"
	ColRoyalty           = "Royalty_Percent"
	ColMRP               = "MRP"
	ColFinalSettled      = "Final_Settled_Amount"
	ColNetProfit         = "Net_Profit"
	ColRequiredSalePrice = "Required_Sale_Price"
	ColNetPayout         = "Net_Payout_Amount"
	ColDiscountPercent   = "Discount_Percent"
	ColTaxableAmount     = "Taxable_Amount"
	ColGSTValue          = "GST_Value"
	ColFlatDeduction     = "Flat_Deduction_Amount"
	ColRoyaltyFee        = "Royalty_Fee_Amount"
	ColTDSAmount         = "TDS_Amount"
	ColTCSAmount         = "TCS_Amount"
	ColStatus            = "Status"
)

// PayoutColumns is the export order of payout results.
var PayoutColumns = []string{
	ColSKU, ColSalePrice, ColCost, ColGSTRate, ColRoyalty,
	ColFinalSettled, ColNetProfit, ColTaxableAmount, ColGSTValue,
	ColFlatDeduction, ColRoyaltyFee, ColTDSAmount, ColTCSAmount,
	ColStatus,
}

// PriceColumns is the export order of price results.
var PriceColumns = []string{
	ColSKU, ColCost, ColTargetProfit, ColGSTRate, ColMRP, ColRoyalty,
	ColRequiredSalePrice, ColNetPayout, ColDiscountPercent,
	ColTaxableAmount, ColGSTValue,
	ColFlatDeduction, ColRoyaltyFee, ColTDSAmount, ColTCSAmount,
	ColStatus,
}

// PayoutRequired and PriceRequired are the input columns an upload must carry.
var (
	PayoutRequired = []string{ColSalePrice, ColCost, ColGSTRate, ColRoyalty}
	PriceRequired  = []string{ColCost, ColTargetProfit, ColGSTRate, ColRoyalty}
)

// Sheet is a rendered table: header, string cells and the column to highlight.
type Sheet struct {
	Name      string
	Columns   []string
	Rows      [][]string
	Highlight string
}

// HighlightIndex returns the position of the highlighted column, or -1.
func (s Sheet) HighlightIndex() int {
	if s.Highlight == "" {
		return -1
	}
	return slices.Index(s.Columns, s.Highlight)
}

// Head returns a copy limited to the first n rows.
func (s Sheet) Head(n int) Sheet {
	if n >= 0 && n < len(s.Rows) {
		s.Rows = s.Rows[:n]
	}
	return s
}

// PayoutSheet lays out payout rows in export order, highlighting net profit.
func PayoutSheet(rows []batch.PayoutRow) Sheet {
	sheet := Sheet{Name: "Payout Results", Columns: PayoutColumns, Highlight: ColNetProfit}
	for _, r := range rows {
		in := r.Input
		cells := map[string]string{
			ColSKU:           r.SKU,
			ColSalePrice:     inputCell(r.Raw, ColSalePrice, in.SalePrice),
			ColCost:          inputCell(r.Raw, ColCost, in.Cost),
			ColGSTRate:       inputCell(r.Raw, ColGSTRate, in.GSTRatePercent),
			ColRoyalty:       inputCell(r.Raw, ColRoyalty, in.RoyaltyPercent),
			ColFinalSettled:  amountCell(r.FinalSettledAmount),
			ColNetProfit:     amountCell(r.NetProfit),
			ColTaxableAmount: amountCell(r.TaxableAmount),
			ColGSTValue:      amountCell(r.GSTValue),
			ColFlatDeduction: amountCell(r.FlatDeductionAmount),
			ColRoyaltyFee:    amountCell(r.RoyaltyFeeAmount),
			ColTDSAmount:     amountCell(r.TDSAmount),
			ColTCSAmount:     amountCell(r.TCSAmount),
			ColStatus:        statusCell(r.Status, r.Error),
		}
		sheet.Rows = append(sheet.Rows, ordered(sheet.Columns, cells))
	}
	return sheet
}

// PriceSheet lays out price rows in export order, highlighting the required price.
func PriceSheet(rows []batch.PriceRow) Sheet {
	sheet := Sheet{Name: "Price Results", Columns: PriceColumns, Highlight: ColRequiredSalePrice}
	for _, r := range rows {
		in := r.Input
		mrp := ""
		if in.PriceCeiling != nil {
			mrp = strconv.FormatFloat(*in.PriceCeiling, 'f', -1, 64)
		}
		if v, ok := r.Raw[ColMRP]; ok {
			mrp = v
		}
		cells := map[string]string{
			ColSKU:               r.SKU,
			ColCost:              inputCell(r.Raw, ColCost, in.Cost),
			ColTargetProfit:      inputCell(r.Raw, ColTargetProfit, in.TargetProfit),
			ColGSTRate:           inputCell(r.Raw, ColGSTRate, in.GSTRatePercent),
			ColMRP:               mrp,
			ColRoyalty:           inputCell(r.Raw, ColRoyalty, in.RoyaltyPercent),
			ColRequiredSalePrice: amountCell(r.RequiredSalePrice),
			ColNetPayout:         amountCell(r.NetPayoutAmount),
			ColDiscountPercent:   amountCell(r.DiscountPercent),
			ColTaxableAmount:     amountCell(r.TaxableAmount),
			ColGSTValue:          amountCell(r.GSTValue),
			ColFlatDeduction:     amountCell(r.FlatDeductionAmount),
			ColRoyaltyFee:        amountCell(r.RoyaltyFeeAmount),
			ColTDSAmount:         amountCell(r.TDSAmount),
			ColTCSAmount:         amountCell(r.TCSAmount),
			ColStatus:            statusCell(r.Status, r.Error),
		}
		sheet.Rows = append(sheet.Rows, ordered(sheet.Columns, cells))
	}
	return sheet
}

func ordered(columns []string, cells map[string]string) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = cells[c]
	}
	return row
}

// inputCell echoes the source cell when there is one so that rows which
// failed to parse still show what was uploaded.
func inputCell(raw map[string]string, column string, v float64) string {
	if s, ok := raw[column]; ok {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func amountCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(batch.Precision)
}

func statusCell(s types.Status, errMsg string) string {
	if s.IsFailure() && errMsg != "" {
		return s.Label() + ": " + errMsg
	}
	return s.Label()
}
