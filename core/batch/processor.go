package batch

import (
	"iter"

	"go.uber.org/zap"

	"payout-calc/core/settlement"
	"payout-calc/core/types"
	"payout-calc/internal/logging"
)

// Processor runs calculations for one set of rates.
type Processor struct {
	rates  types.RateConfig
	logger *zap.Logger
}

// NewProcessor validates the rates once for the whole run.
func NewProcessor(rates types.RateConfig, logger *zap.Logger) (*Processor, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Named("batch")
	}
	return &Processor{rates: rates, logger: logger}, nil
}

// Rates returns the rates this processor applies.
func (p *Processor) Rates() types.RateConfig {
	return p.rates
}

// Payout computes a single product's settlement from its sale price.
func (p *Processor) Payout(input types.ProductInput) ForwardResult {
	return p.forward(Record{Input: input})
}

// Price solves a single product's required sale price.
//
// A target profit below -cost solves to a negative price with status OK, and
// the discount against an MRP then exceeds 100%. The breakdown is computed at
// that price, where no sale happens, so its NetProfit is -cost rather than
// the target.
func (p *Processor) Price(input types.ProductInput) BackwardResult {
	return p.backward(Record{Input: input})
}

// ProcessForward maps records to payout results, preserving order.
func (p *Processor) ProcessForward(records iter.Seq[Record]) iter.Seq[ForwardResult] {
	return func(yield func(ForwardResult) bool) {
		for rec := range records {
			if !yield(p.forward(rec)) {
				return
			}
		}
	}
}

// ProcessBackward maps records to price results, preserving order.
func (p *Processor) ProcessBackward(records iter.Seq[Record]) iter.Seq[BackwardResult] {
	return func(yield func(BackwardResult) bool) {
		for rec := range records {
			if !yield(p.backward(rec)) {
				return
			}
		}
	}
}

func (p *Processor) forward(rec Record) ForwardResult {
	res := ForwardResult{Row: rec.Row, Input: rec.Input, Raw: rec.Raw}

	err := rec.Err
	if err == nil {
		err = rec.Input.Validate(types.DirectionForward)
	}
	if err == nil {
		in := rec.Input
		b, cerr := settlement.Compute(in.SalePrice, in.Cost, in.GSTRatePercent, in.RoyaltyPercent, p.rates)
		if cerr == nil {
			res.Breakdown = &b
			res.Status = types.StatusOK
			return res
		}
		err = cerr
	}

	res.Status = types.StatusForError(err)
	res.Err = err
	p.logRowFailure("payout", rec, err)
	return res
}

func (p *Processor) backward(rec Record) BackwardResult {
	res := BackwardResult{Row: rec.Row, Input: rec.Input, Raw: rec.Raw}
	fail := func(err error) BackwardResult {
		res.Solution = types.PriceSolution{Status: types.StatusForError(err)}
		res.Err = err
		p.logRowFailure("price", rec, err)
		return res
	}

	if rec.Err != nil {
		return fail(rec.Err)
	}
	in := rec.Input
	if err := in.Validate(types.DirectionBackward); err != nil {
		return fail(err)
	}

	price, feasible, err := settlement.Solve(in.Cost, in.TargetProfit, in.GSTRatePercent, in.RoyaltyPercent, p.rates)
	if err != nil {
		return fail(err)
	}
	if !feasible {
		res.Breakdown = &types.DeductionBreakdown{}
		res.Solution = types.PriceSolution{Status: types.StatusProfitNotPossible}
		return res
	}

	b, err := settlement.Compute(price, in.Cost, in.GSTRatePercent, in.RoyaltyPercent, p.rates)
	if err != nil {
		return fail(err)
	}
	res.Breakdown = &b
	res.Solution = ApplyCeiling(price, in.PriceCeiling)
	return res
}

// ApplyCeiling checks a solved price against the MRP. A price above the
// ceiling is reported, never clipped. A price equal to the ceiling is OK with
// a zero discount.
func ApplyCeiling(price float64, ceiling *float64) types.PriceSolution {
	sol := types.PriceSolution{RequiredSalePrice: &price, Status: types.StatusOK}
	if ceiling == nil {
		return sol
	}
	if price > *ceiling {
		sol.Status = types.StatusPriceExceedsCeiling
		return sol
	}
	discount := (*ceiling - price) / *ceiling * 100
	sol.DiscountPercent = &discount
	return sol
}

func (p *Processor) logRowFailure(direction string, rec Record, err error) {
	fields := append(logging.Row(rec.Row, rec.Input.SKU), zap.String("direction", direction), zap.Error(err))
	p.logger.Debug("row not computed", fields...)
}
