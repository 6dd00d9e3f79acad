package settlement

import (
	"payout-calc/core/types"
	"payout-calc/internal/errors"
)

// Denominator is the share of each rupee of sale price that survives all
// deductions once GST and TCS are folded in:
//
//	(1 - flat - royalty) - (tds + gst*tcs) / (1 + gst)
//
// Net profit is Denominator*salePrice - cost, which is what makes Solve a
// closed form.
func Denominator(gstRatePercent, royaltyPercent float64, rates types.RateConfig) float64 {
	gstFraction := gstRatePercent / 100
	royaltyFraction := royaltyPercent / 100
	return (1 - rates.FlatRate - royaltyFraction) - (rates.TDSRate+gstFraction*rates.TCSRate)/(1+gstFraction)
}

// Solve returns the sale price at which net profit equals targetProfit.
//
// feasible is false when the combined deductions reach or exceed 100% of the
// sale price; no price can then produce the target and that is a business
// outcome, not an error. err is only set for non-finite arithmetic.
func Solve(cost, targetProfit, gstRatePercent, royaltyPercent float64, rates types.RateConfig) (price float64, feasible bool, err error) {
	if !finite(cost, targetProfit, gstRatePercent, royaltyPercent, rates.FlatRate, rates.TDSRate, rates.TCSRate) {
		return 0, false, errors.Computation("non-finite input to price calculation")
	}

	denominator := Denominator(gstRatePercent, royaltyPercent, rates)
	if !finite(denominator) {
		return 0, false, errors.Computation("price calculation produced a non-finite denominator")
	}
	if denominator <= 0 {
		return 0, false, nil
	}

	price = (targetProfit + cost) / denominator
	if !finite(price) {
		return 0, false, errors.Computation("price calculation produced a non-finite sale price")
	}
	return price, true, nil
}
