package batch

import (
	"github.com/shopspring/decimal"

	"payout-calc/core/types"
	"payout-calc/internal/errors"
)

// Precision is the number of decimal places shown and exported.
const Precision = 2

// PayoutRow is a ForwardResult prepared for display or export. Computed
// amounts are rounded exactly once, here; nil means unavailable.
type PayoutRow struct {
	Row                 int                `json:"row,omitempty"`
	SKU                 string             `json:"sku,omitempty"`
	Input               types.ProductInput `json:"-"`
	Raw                 map[string]string  `json:"-"`
	FinalSettledAmount  *decimal.Decimal   `json:"final_settled_amount"`
	NetProfit           *decimal.Decimal   `json:"net_profit"`
	TaxableAmount       *decimal.Decimal   `json:"taxable_amount"`
	GSTValue            *decimal.Decimal   `json:"gst_value"`
	FlatDeductionAmount *decimal.Decimal   `json:"flat_deduction_amount"`
	RoyaltyFeeAmount    *decimal.Decimal   `json:"royalty_fee_amount"`
	TDSAmount           *decimal.Decimal   `json:"tds_amount"`
	TCSAmount           *decimal.Decimal   `json:"tcs_amount"`
	TotalDeductions     *decimal.Decimal   `json:"total_deductions"`
	Status              types.Status       `json:"status"`
	Error               string             `json:"error,omitempty"`
}

// PriceRow is a BackwardResult prepared for display or export.
type PriceRow struct {
	Row                 int                `json:"row,omitempty"`
	SKU                 string             `json:"sku,omitempty"`
	Input               types.ProductInput `json:"-"`
	Raw                 map[string]string  `json:"-"`
	RequiredSalePrice   *decimal.Decimal   `json:"required_sale_price"`
	NetPayoutAmount     *decimal.Decimal   `json:"net_payout_amount"`
	DiscountPercent     *decimal.Decimal   `json:"discount_percent"`
	TaxableAmount       *decimal.Decimal   `json:"taxable_amount"`
	GSTValue            *decimal.Decimal   `json:"gst_value"`
	FlatDeductionAmount *decimal.Decimal   `json:"flat_deduction_amount"`
	RoyaltyFeeAmount    *decimal.Decimal   `json:"royalty_fee_amount"`
	TDSAmount           *decimal.Decimal   `json:"tds_amount"`
	TCSAmount           *decimal.Decimal   `json:"tcs_amount"`
	TotalDeductions     *decimal.Decimal   `json:"total_deductions"`
	Status              types.Status       `json:"status"`
	Error               string             `json:"error,omitempty"`
}

// PresentPayout rounds a payout result for presentation.
func PresentPayout(r ForwardResult) PayoutRow {
	row := PayoutRow{
		Row:    r.Row,
		SKU:    r.Input.SKU,
		Input:  r.Input,
		Raw:    r.Raw,
		Status: r.Status,
	}
	if r.Err != nil {
		row.Error = errors.MessageOf(r.Err)
	}
	if b := r.Breakdown; b != nil {
		row.FinalSettledAmount = Round(b.FinalSettledAmount)
		row.NetProfit = Round(b.NetProfit)
		row.TaxableAmount = Round(b.TaxableAmount)
		row.GSTValue = Round(b.GSTValue)
		row.FlatDeductionAmount = Round(b.FlatDeductionAmount)
		row.RoyaltyFeeAmount = Round(b.RoyaltyFeeAmount)
		row.TDSAmount = Round(b.TDSAmount)
		row.TCSAmount = Round(b.TCSAmount)
		row.TotalDeductions = Round(b.TotalDeductions())
	}
	return row
}

// PresentPrice rounds a price result for presentation.
func PresentPrice(r BackwardResult) PriceRow {
	row := PriceRow{
		Row:    r.Row,
		SKU:    r.Input.SKU,
		Input:  r.Input,
		Raw:    r.Raw,
		Status: r.Solution.Status,
	}
	if r.Err != nil {
		row.Error = errors.MessageOf(r.Err)
	}
	if p := r.Solution.RequiredSalePrice; p != nil {
		row.RequiredSalePrice = Round(*p)
	}
	if d := r.Solution.DiscountPercent; d != nil {
		row.DiscountPercent = Round(*d)
	}
	if b := r.Breakdown; b != nil {
		row.NetPayoutAmount = Round(b.FinalSettledAmount)
		row.TaxableAmount = Round(b.TaxableAmount)
		row.GSTValue = Round(b.GSTValue)
		row.FlatDeductionAmount = Round(b.FlatDeductionAmount)
		row.RoyaltyFeeAmount = Round(b.RoyaltyFeeAmount)
		row.TDSAmount = Round(b.TDSAmount)
		row.TCSAmount = Round(b.TCSAmount)
		row.TotalDeductions = Round(b.TotalDeductions())
	}
	return row
}

// Round converts a full-precision amount to a presentation decimal.
func Round(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v).Round(Precision)
	return &d
}
