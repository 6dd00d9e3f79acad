package batch

import (
	"testing"

	"payout-calc/core/types"
	"payout-calc/internal/errors"
)

func TestPresentPayoutRoundsOnce(t *testing.T) {
	p, _ := newTestProcessor(t)
	row := PresentPayout(p.Payout(types.ProductInput{SKU: "SKU-001", SalePrice: 1045, Cost: 500, GSTRatePercent: 5, RoyaltyPercent: 10}))

	checks := map[string]string{
		"final_settled_amount":  row.FinalSettledAmount.StringFixed(2),
		"net_profit":            row.NetProfit.StringFixed(2),
		"taxable_amount":        row.TaxableAmount.StringFixed(2),
		"gst_value":             row.GSTValue.StringFixed(2),
		"flat_deduction_amount": row.FlatDeductionAmount.StringFixed(2),
		"royalty_fee_amount":    row.RoyaltyFeeAmount.StringFixed(2),
		"tds_amount":            row.TDSAmount.StringFixed(2),
		"tcs_amount":            row.TCSAmount.StringFixed(2),
	}
	want := map[string]string{
		"final_settled_amount":  "495.63",
		"net_profit":            "-4.37",
		"taxable_amount":        "995.24",
		"gst_value":             "49.76",
		"flat_deduction_amount": "438.90",
		"royalty_fee_amount":    "104.50",
		"tds_amount":            "1.00",
		"tcs_amount":            "4.98",
	}
	for k, v := range want {
		if checks[k] != v {
			t.Errorf("%s = %s, want %s", k, checks[k], v)
		}
	}
	if row.SKU != "SKU-001" || row.Status != types.StatusOK || row.Error != "" {
		t.Fatalf("unexpected row metadata %+v", row)
	}
}

// TestPresentPayoutNotRoundedBetweenSteps: rounding each deduction first and
// then subtracting would give 495.62 here, not 495.63.
func TestPresentPayoutNotRoundedBetweenSteps(t *testing.T) {
	p, _ := newTestProcessor(t)
	row := PresentPayout(p.Payout(types.ProductInput{SalePrice: 1045, Cost: 500, GSTRatePercent: 5, RoyaltyPercent: 10}))

	early := 1045 - (438.90 + 104.50 + 1.00 + 4.98)
	if row.FinalSettledAmount.StringFixed(2) == Round(early).StringFixed(2) {
		t.Fatalf("settled amount %s matches the early-rounded value", row.FinalSettledAmount)
	}
}

func TestPresentPayoutFailedRow(t *testing.T) {
	p, _ := newTestProcessor(t)
	res := p.forward(Record{Row: 9, Input: types.ProductInput{SKU: "BAD"}, Err: errors.Input("Product_Cost is required")})
	row := PresentPayout(res)

	if row.NetProfit != nil || row.FinalSettledAmount != nil {
		t.Fatal("expected unavailable amounts for a failed row")
	}
	if row.Error == "" || row.Status != types.StatusInvalidInput || row.Row != 9 {
		t.Fatalf("unexpected failed row %+v", row)
	}
}

func TestPresentPriceInfeasible(t *testing.T) {
	p, _ := newTestProcessor(t)
	row := PresentPrice(p.Price(types.ProductInput{Cost: 500, TargetProfit: 100, RoyaltyPercent: 90, PriceCeiling: ptr(1899)}))

	if row.RequiredSalePrice != nil || row.DiscountPercent != nil {
		t.Fatal("expected nil price and discount")
	}
	if row.NetPayoutAmount == nil || !row.NetPayoutAmount.IsZero() || !row.TCSAmount.IsZero() {
		t.Fatal("expected zeroed amounts")
	}
	if row.Status.Label() != "Profit Not Possible" {
		t.Fatalf("unexpected label %q", row.Status.Label())
	}
}

func TestPresentPriceDiscount(t *testing.T) {
	p, _ := newTestProcessor(t)
	row := PresentPrice(p.Price(types.ProductInput{Cost: 500, TargetProfit: 100, GSTRatePercent: 5, RoyaltyPercent: 10, PriceCeiling: ptr(1899)}))

	if got := row.RequiredSalePrice.StringFixed(2); got != "1265.06" {
		t.Fatalf("expected price 1265.06, got %s", got)
	}
	if got := row.DiscountPercent.StringFixed(2); got != "33.38" {
		t.Fatalf("expected discount 33.38, got %s", got)
	}
	if got := row.NetPayoutAmount.StringFixed(2); got != "600.00" {
		t.Fatalf("expected net payout 600.00, got %s", got)
	}
}
