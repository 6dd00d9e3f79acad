// Package batch applies the settlement calculations row by row.
//
// Records flow in as a lazy sequence and results flow out in the same order,
// one result per record. Rows never share state, so a malformed or failing row
// only affects its own result.
package batch

import (
	"payout-calc/core/types"
)

// Record is one parsed input row.
type Record struct {
	// Row is the 1-based data row number in the source, 0 for single calculations
	Row int

	// Input holds the parsed values
	Input types.ProductInput

	// Raw holds the source cells by column name, echoed back on export
	Raw map[string]string

	// Err is set when the row could not be parsed
	Err error
}

// ForwardResult is the payout computed for one record.
type ForwardResult struct {
	Row       int
	Input     types.ProductInput
	Raw       map[string]string
	Breakdown *types.DeductionBreakdown
	Status    types.Status
	Err       error
}

// BackwardResult is the sale price solved for one record. Breakdown is the
// settlement at the solved price, all zero when the profit is not possible and
// nil when the row failed.
type BackwardResult struct {
	Row       int
	Input     types.ProductInput
	Raw       map[string]string
	Solution  types.PriceSolution
	Breakdown *types.DeductionBreakdown
	Err       error
}

// Status returns the row status.
func (r BackwardResult) Status() types.Status {
	return r.Solution.Status
}
