// Package api - Request and response types
package api

import (
	"encoding/json"
	"strings"

	"payout-calc/adapters/tabular"
	"payout-calc/core/batch"
	"payout-calc/core/types"
)

// RateOverride replaces individual server rates for one request.
type RateOverride struct {
	FlatRate *float64 `json:"flat_rate,omitempty" validate:"omitempty,gte=0,lte=1"`
	TDSRate  *float64 `json:"tds_rate,omitempty" validate:"omitempty,gte=0,lte=1"`
	TCSRate  *float64 `json:"tcs_rate,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Apply returns base with the overridden rates replaced.
func (o *RateOverride) Apply(base types.RateConfig) types.RateConfig {
	if o == nil {
		return base
	}
	if o.FlatRate != nil {
		base.FlatRate = *o.FlatRate
	}
	if o.TDSRate != nil {
		base.TDSRate = *o.TDSRate
	}
	if o.TCSRate != nil {
		base.TCSRate = *o.TCSRate
	}
	return base
}

// PayoutRequest is the body of POST /v1/payout
type PayoutRequest struct {
	SKU            string        `json:"sku,omitempty"`
	SalePrice      *float64      `json:"sale_price" validate:"required"`
	Cost           *float64      `json:"cost" validate:"required,gte=0"`
	GSTRatePercent *float64      `json:"gst_rate_percent" validate:"required,gte=0"`
	RoyaltyPercent *float64      `json:"royalty_percent" validate:"required,gte=0"`
	Rates          *RateOverride `json:"rates,omitempty"`
}

// PriceRequest is the body of POST /v1/price
type PriceRequest struct {
	SKU            string        `json:"sku,omitempty"`
	Cost           *float64      `json:"cost" validate:"required,gte=0"`
	TargetProfit   *float64      `json:"target_profit" validate:"required"`
	GSTRatePercent *float64      `json:"gst_rate_percent" validate:"required,gte=0"`
	RoyaltyPercent *float64      `json:"royalty_percent" validate:"required,gte=0"`
	MRP            *float64      `json:"mrp,omitempty" validate:"omitempty,gt=0"`
	Rates          *RateOverride `json:"rates,omitempty"`
}

// BulkRow is one row of a bulk JSON request. Fields are checked per row so
// a bad row is reported in its result instead of failing the request.
type BulkRow struct {
	SKU            string  `json:"sku,omitempty"`
	SalePrice      *Number `json:"sale_price,omitempty"`
	Cost           *Number `json:"cost"`
	TargetProfit   *Number `json:"target_profit,omitempty"`
	GSTRatePercent *Number `json:"gst_rate_percent"`
	RoyaltyPercent *Number `json:"royalty_percent"`
	MRP            *Number `json:"mrp,omitempty"`
}

// Number is a bulk cell. It takes a JSON number or a numeric string the way
// spreadsheet cells are read; anything else decodes without error and is kept
// in Raw so only its row fails.
type Number struct {
	Value float64
	Raw   string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	n.Raw = string(data)
	if err := json.Unmarshal(data, &n.Value); err == nil {
		n.Valid = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.Raw = s
		n.Value, n.Valid = tabular.ParseNumber(strings.TrimSpace(s))
	}
	return nil
}

// BulkRequest is the body of POST /v1/bulk/{direction}
type BulkRequest struct {
	Rows  []BulkRow     `json:"rows" validate:"required,min=1"`
	Rates *RateOverride `json:"rates,omitempty"`
}

// PayoutResponse is the result of a single payout calculation
type PayoutResponse struct {
	RequestID string           `json:"request_id"`
	Rates     types.RateConfig `json:"rates"`
	Result    batch.PayoutRow  `json:"result"`
}

// PriceResponse is the result of a single price calculation. Verification is
// the payout recomputed at the required price.
type PriceResponse struct {
	RequestID    string           `json:"request_id"`
	Rates        types.RateConfig `json:"rates"`
	Result       batch.PriceRow   `json:"result"`
	Verification *batch.PayoutRow `json:"verification,omitempty"`
}

// BulkPayoutResponse lists payout rows in request order
type BulkPayoutResponse struct {
	RequestID string            `json:"request_id"`
	Rates     types.RateConfig  `json:"rates"`
	Summary   batch.Summary     `json:"summary"`
	Rows      []batch.PayoutRow `json:"rows"`
}

// BulkPriceResponse lists price rows in request order
type BulkPriceResponse struct {
	RequestID string           `json:"request_id"`
	Rates     types.RateConfig `json:"rates"`
	Summary   batch.Summary    `json:"summary"`
	Rows      []batch.PriceRow `json:"rows"`
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
