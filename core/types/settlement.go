// Package types - Settlement model types
package types

import (
	"math"

	"payout-calc/internal/errors"
)

// RateConfig holds the marketplace deduction rates applied uniformly to every
// row of a run. Rates are fractions in [0,1].
type RateConfig struct {
	// FlatRate is the platform fee as a fraction of sale price
	FlatRate float64 `json:"flat_rate" split_words:"true" validate:"gte=0,lte=1"`

	// TDSRate is withheld from the taxable (ex-GST) amount
	TDSRate float64 `json:"tds_rate" split_words:"true" validate:"gte=0,lte=1"`

	// TCSRate is withheld from the GST component
	TCSRate float64 `json:"tcs_rate" split_words:"true" validate:"gte=0,lte=1"`
}

// DefaultRateConfig returns the rates used when nothing is configured.
func DefaultRateConfig() RateConfig {
	return RateConfig{
		FlatRate: 0.42,
		TDSRate:  0.001,
		TCSRate:  0.10,
	}
}

// Validate checks every rate is a finite fraction in [0,1].
func (r RateConfig) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"flat_rate", r.FlatRate},
		{"tds_rate", r.TDSRate},
		{"tcs_rate", r.TCSRate},
	} {
		if math.IsNaN(f.value) || f.value < 0 || f.value > 1 {
			return errors.Inputf("%s must be between 0 and 1, got %v", f.name, f.value)
		}
	}
	return nil
}

// Direction selects which calculation a record feeds.
type Direction string

const (
	// DirectionForward computes payout and profit from a given sale price
	DirectionForward Direction = "payout"

	// DirectionBackward solves the sale price for a target profit
	DirectionBackward Direction = "price"
)

// ParseDirection maps a CLI/API token to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionForward, DirectionBackward:
		return Direction(s), nil
	}
	return "", errors.Inputf("unknown direction %q (use payout or price)", s)
}

// ProductInput is one product's inputs. SalePrice is read in forward mode,
// TargetProfit and PriceCeiling in backward mode.
type ProductInput struct {
	SKU            string   `json:"sku,omitempty"`
	Cost           float64  `json:"cost" validate:"gte=0"`
	GSTRatePercent float64  `json:"gst_rate_percent" validate:"gte=0"`
	RoyaltyPercent float64  `json:"royalty_percent" validate:"gte=0"`
	SalePrice      float64  `json:"sale_price,omitempty"`
	TargetProfit   float64  `json:"target_profit,omitempty"`
	PriceCeiling   *float64 `json:"mrp,omitempty" validate:"omitempty,gt=0"`
}

// Validate checks the fields the given direction reads.
func (p ProductInput) Validate(dir Direction) error {
	if err := nonNegative("Product_Cost", p.Cost); err != nil {
		return err
	}
	if err := nonNegative("GST_Rate_Percent", p.GSTRatePercent); err != nil {
		return err
	}
	if err := nonNegative("Royalty_Percent", p.RoyaltyPercent); err != nil {
		return err
	}
	switch dir {
	case DirectionForward:
		if !isFinite(p.SalePrice) {
			return errors.Inputf("Given_Sale_Price must be a finite number, got %v", p.SalePrice)
		}
	case DirectionBackward:
		if !isFinite(p.TargetProfit) {
			return errors.Inputf("Target_Net_Profit must be a finite number, got %v", p.TargetProfit)
		}
		if p.PriceCeiling != nil && (!isFinite(*p.PriceCeiling) || *p.PriceCeiling <= 0) {
			return errors.Inputf("MRP must be greater than 0, got %v", *p.PriceCeiling)
		}
	default:
		return errors.Inputf("unknown direction %q", dir)
	}
	return nil
}

func nonNegative(column string, v float64) error {
	if !isFinite(v) || v < 0 {
		return errors.Inputf("%s must be a finite number >= 0, got %v", column, v)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DeductionBreakdown is the full settlement of one sale.
type DeductionBreakdown struct {
	TaxableAmount       float64 `json:"taxable_amount"`
	GSTValue            float64 `json:"gst_value"`
	FlatDeductionAmount float64 `json:"flat_deduction_amount"`
	RoyaltyFeeAmount    float64 `json:"royalty_fee_amount"`
	TDSAmount           float64 `json:"tds_amount"`
	TCSAmount           float64 `json:"tcs_amount"`
	FinalSettledAmount  float64 `json:"final_settled_amount"`
	NetProfit           float64 `json:"net_profit"`
}

// TotalDeductions is everything withheld from the sale price.
func (b DeductionBreakdown) TotalDeductions() float64 {
	return b.FlatDeductionAmount + b.RoyaltyFeeAmount + b.TDSAmount + b.TCSAmount
}

// PriceSolution is the outcome of solving for a sale price.
// RequiredSalePrice is nil when the target profit cannot be reached.
type PriceSolution struct {
	RequiredSalePrice *float64 `json:"required_sale_price"`
	DiscountPercent   *float64 `json:"discount_percent"`
	Status            Status   `json:"status"`
}

// Feasible reports whether a sale price was found.
func (s PriceSolution) Feasible() bool {
	return s.RequiredSalePrice != nil
}
