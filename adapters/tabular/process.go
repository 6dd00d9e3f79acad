package tabular

import (
	"iter"
	"slices"

	"payout-calc/core/batch"
	"payout-calc/core/output"
	"payout-calc/core/types"
)

// Process runs every record through p in order and lays the results out
// for export, along with the run summary.
func Process(p *batch.Processor, records iter.Seq[batch.Record], dir types.Direction) (output.Sheet, batch.Summary) {
	if dir == types.DirectionBackward {
		results := slices.Collect(p.ProcessBackward(records))
		rows := make([]batch.PriceRow, 0, len(results))
		for _, res := range results {
			rows = append(rows, batch.PresentPrice(res))
		}
		return output.PriceSheet(rows), p.SummarizeBackward(results)
	}
	results := slices.Collect(p.ProcessForward(records))
	rows := make([]batch.PayoutRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, batch.PresentPayout(res))
	}
	return output.PayoutSheet(rows), p.SummarizeForward(results)
}
