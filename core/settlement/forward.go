// Package settlement - Marketplace settlement arithmetic
// Two pure functions: Compute derives the payout from a sale price, Solve
// derives the sale price that yields a target profit. Neither performs I/O or
// keeps state; rates arrive as an explicit value on every call.
package settlement

import (
	"math"

	"payout-calc/core/types"
	"payout-calc/internal/errors"
)

// Compute derives the full deduction breakdown and net profit for one sale.
//
// A sale price at or below zero has no fee or tax basis: every deduction is
// zero and the seller is left with -cost. Non-finite inputs or results are
// reported as a COMPUTATION_ERROR and no breakdown is returned.
func Compute(salePrice, cost, gstRatePercent, royaltyPercent float64, rates types.RateConfig) (types.DeductionBreakdown, error) {
	if !finite(salePrice, cost, gstRatePercent, royaltyPercent, rates.FlatRate, rates.TDSRate, rates.TCSRate) {
		return types.DeductionBreakdown{}, errors.Computation("non-finite input to payout calculation")
	}

	if salePrice <= 0 {
		return types.DeductionBreakdown{
			FinalSettledAmount: -cost,
			NetProfit:          -cost,
		}, nil
	}

	gstFraction := gstRatePercent / 100
	royaltyFraction := royaltyPercent / 100

	taxable := salePrice / (1 + gstFraction)
	gstValue := salePrice - taxable

	b := types.DeductionBreakdown{
		TaxableAmount:       taxable,
		GSTValue:            gstValue,
		FlatDeductionAmount: salePrice * rates.FlatRate,
		RoyaltyFeeAmount:    salePrice * royaltyFraction,
		TDSAmount:           taxable * rates.TDSRate,
		// TCS is levied on the GST component, not the taxable base.
		TCSAmount: gstValue * rates.TCSRate,
	}
	b.FinalSettledAmount = salePrice - b.TotalDeductions()
	b.NetProfit = b.FinalSettledAmount - cost

	if !finite(b.TaxableAmount, b.GSTValue, b.FinalSettledAmount, b.NetProfit) {
		return types.DeductionBreakdown{}, errors.Computation("payout calculation produced a non-finite amount")
	}
	return b, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
