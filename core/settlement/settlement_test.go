package settlement

import (
	"math"
	"testing"

	"payout-calc/core/types"
	"payout-calc/internal/errors"
)

var marketplaceRates = types.RateConfig{FlatRate: 0.42, TDSRate: 0.001, TCSRate: 0.10}

func nearlyEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}

func relClose(got, want, rel float64) bool {
	scale := math.Max(math.Abs(want), 1)
	return math.Abs(got-want) <= rel*scale
}

// TestComputeSingleProduct pins the worked single-product example.
func TestComputeSingleProduct(t *testing.T) {
	b, err := Compute(1045.00, 500.00, 5, 10, marketplaceRates)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	nearlyEqual(t, "taxableAmount", b.TaxableAmount, 995.24, 0.01)
	nearlyEqual(t, "gstValue", b.GSTValue, 49.76, 0.01)
	nearlyEqual(t, "flatDeductionAmount", b.FlatDeductionAmount, 438.90, 0.01)
	nearlyEqual(t, "royaltyFeeAmount", b.RoyaltyFeeAmount, 104.50, 1e-9)
	nearlyEqual(t, "tdsAmount", b.TDSAmount, 1.00, 0.01)
	nearlyEqual(t, "tcsAmount", b.TCSAmount, 4.98, 0.01)
	nearlyEqual(t, "finalSettledAmount", b.FinalSettledAmount, 495.63, 0.01)
	nearlyEqual(t, "netProfit", b.NetProfit, -4.37, 0.01)
}

// TestComputeDeductionsSumToSalePrice checks settled + deductions == sale price.
func TestComputeDeductionsSumToSalePrice(t *testing.T) {
	cases := []struct {
		salePrice, cost, gst, royalty float64
		rates                         types.RateConfig
	}{
		{1045, 500, 5, 10, marketplaceRates},
		{1500, 750, 12, 0, marketplaceRates},
		{0.01, 0, 28, 3, marketplaceRates},
		{99999.99, 12345, 18, 7.5, types.RateConfig{FlatRate: 0.15, TDSRate: 0.01, TCSRate: 0.01}},
		{250, 100, 0, 0, types.RateConfig{}},
		{250, 100, 0, 0, types.RateConfig{FlatRate: 1, TDSRate: 1, TCSRate: 1}},
	}

	for _, tc := range cases {
		b, err := Compute(tc.salePrice, tc.cost, tc.gst, tc.royalty, tc.rates)
		if err != nil {
			t.Fatalf("Compute(%v) returned error: %v", tc.salePrice, err)
		}
		if !relClose(b.FinalSettledAmount+b.TotalDeductions(), tc.salePrice, 1e-9) {
			t.Fatalf("settled %v + deductions %v != sale price %v", b.FinalSettledAmount, b.TotalDeductions(), tc.salePrice)
		}
		if !relClose(b.NetProfit, b.FinalSettledAmount-tc.cost, 1e-12) {
			t.Fatalf("net profit %v != settled %v - cost %v", b.NetProfit, b.FinalSettledAmount, tc.cost)
		}
		if !relClose(b.TaxableAmount+b.GSTValue, tc.salePrice, 1e-12) {
			t.Fatalf("taxable %v + gst %v != sale price %v", b.TaxableAmount, b.GSTValue, tc.salePrice)
		}
	}
}

// TestComputeNonPositiveSalePrice covers the zero and negative price policy.
func TestComputeNonPositiveSalePrice(t *testing.T) {
	for _, sp := range []float64{0, -10} {
		b, err := Compute(sp, 500, 5, 10, marketplaceRates)
		if err != nil {
			t.Fatalf("Compute(%v) returned error: %v", sp, err)
		}
		want := types.DeductionBreakdown{FinalSettledAmount: -500, NetProfit: -500}
		if b != want {
			t.Fatalf("Compute(%v) = %+v, want %+v", sp, b, want)
		}
	}
}

func TestComputeNonFiniteInput(t *testing.T) {
	inputs := [][4]float64{
		{math.NaN(), 500, 5, 10},
		{1000, math.Inf(1), 5, 10},
		{1000, 500, math.Inf(-1), 10},
		{1000, 500, -100, 10},
	}
	for _, in := range inputs {
		_, err := Compute(in[0], in[1], in[2], in[3], marketplaceRates)
		if !errors.IsType(err, errors.TypeComputation) {
			t.Fatalf("Compute(%v) expected COMPUTATION_ERROR, got %v", in, err)
		}
	}
}

func TestDenominatorSingleProduct(t *testing.T) {
	nearlyEqual(t, "denominator", Denominator(5, 10, marketplaceRates), 0.474286, 1e-6)
}

// TestSolveSingleProduct pins the worked price example.
func TestSolveSingleProduct(t *testing.T) {
	price, feasible, err := Solve(500, 100, 5, 10, marketplaceRates)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if !feasible {
		t.Fatal("expected a feasible price")
	}
	nearlyEqual(t, "requiredSalePrice", price, 1265.06, 0.01)
}

// TestSolveRoundTrip feeds solved prices back through Compute.
func TestSolveRoundTrip(t *testing.T) {
	rateSets := []types.RateConfig{
		marketplaceRates,
		{FlatRate: 0.2, TDSRate: 0.01, TCSRate: 0.01},
		{},
	}
	for _, rates := range rateSets {
		for _, cost := range []float64{0, 1, 500, 12000.5} {
			for _, profit := range []float64{0, 0.01, 100, 4500} {
				for _, gst := range []float64{0, 5, 12, 18, 28} {
					for _, royalty := range []float64{0, 2.5, 10, 30} {
						price, feasible, err := Solve(cost, profit, gst, royalty, rates)
						if err != nil {
							t.Fatalf("Solve returned error: %v", err)
						}
						if !feasible {
							t.Fatalf("expected feasible price for rates %+v royalty %v", rates, royalty)
						}
						if cost+profit == 0 {
							if price != 0 {
								t.Fatalf("expected zero price for zero cost and profit, got %v", price)
							}
							continue
						}
						b, err := Compute(price, cost, gst, royalty, rates)
						if err != nil {
							t.Fatalf("Compute returned error: %v", err)
						}
						if !relClose(b.NetProfit, profit, 1e-6) {
							t.Fatalf("round trip profit %v, want %v (cost %v gst %v royalty %v rates %+v)",
								b.NetProfit, profit, cost, gst, royalty, rates)
						}
					}
				}
			}
		}
	}
}

// TestSolveInfeasible: flat 60% plus royalty 50% already exceeds the sale price.
func TestSolveInfeasible(t *testing.T) {
	rates := types.RateConfig{FlatRate: 0.6, TDSRate: 0.001, TCSRate: 0.10}
	for _, in := range [][4]float64{
		{500, 100, 5, 50},
		{0, 0, 0, 50},
		{1e6, 1e6, 28, 50},
	} {
		price, feasible, err := Solve(in[0], in[1], in[2], in[3], rates)
		if err != nil {
			t.Fatalf("Solve(%v) returned error: %v", in, err)
		}
		if feasible || price != 0 {
			t.Fatalf("Solve(%v) = (%v, %v), want infeasible", in, price, feasible)
		}
	}
}

func TestSolveExactlyZeroDenominatorIsInfeasible(t *testing.T) {
	rates := types.RateConfig{FlatRate: 0.5}
	_, feasible, err := Solve(100, 10, 0, 50, rates)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if feasible {
		t.Fatal("expected zero denominator to be infeasible")
	}
}

func TestSolveNonFiniteInput(t *testing.T) {
	_, feasible, err := Solve(math.NaN(), 100, 5, 10, marketplaceRates)
	if feasible || !errors.IsType(err, errors.TypeComputation) {
		t.Fatalf("expected COMPUTATION_ERROR, got feasible=%v err=%v", feasible, err)
	}
	_, _, err = Solve(100, 100, -100, 10, marketplaceRates)
	if !errors.IsType(err, errors.TypeComputation) {
		t.Fatalf("expected COMPUTATION_ERROR for gst -100%%, got %v", err)
	}
}
