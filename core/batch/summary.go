package batch

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"payout-calc/core/types"
)

// Summary counts the outcome of a run.
type Summary struct {
	Direction types.Direction      `json:"direction"`
	Processed int                  `json:"processed"`
	Failed    int                  `json:"failed"`
	ByStatus  map[types.Status]int `json:"by_status"`

	// TotalNetProfit sums net profit over computed payout rows
	TotalNetProfit decimal.Decimal `json:"total_net_profit"`
}

func newSummary(dir types.Direction) Summary {
	return Summary{Direction: dir, ByStatus: make(map[types.Status]int)}
}

func (s *Summary) count(status types.Status) {
	s.Processed++
	s.ByStatus[status]++
	if status.IsFailure() {
		s.Failed++
	}
}

// SummarizeForward tallies payout results and logs the run.
func (p *Processor) SummarizeForward(results []ForwardResult) Summary {
	s := newSummary(types.DirectionForward)
	total := 0.0
	for _, r := range results {
		s.count(r.Status)
		if r.Breakdown != nil {
			total += r.Breakdown.NetProfit
		}
	}
	s.TotalNetProfit = *Round(total)
	p.logSummary(s)
	return s
}

// SummarizeBackward tallies price results and logs the run.
func (p *Processor) SummarizeBackward(results []BackwardResult) Summary {
	s := newSummary(types.DirectionBackward)
	total := 0.0
	for _, r := range results {
		s.count(r.Solution.Status)
		if r.Breakdown != nil {
			total += r.Breakdown.NetProfit
		}
	}
	s.TotalNetProfit = *Round(total)
	p.logSummary(s)
	return s
}

func (p *Processor) logSummary(s Summary) {
	p.logger.Info("batch processed",
		zap.String("direction", string(s.Direction)),
		zap.Int("rows", s.Processed),
		zap.Int("failed", s.Failed),
		zap.Any("by_status", s.ByStatus),
	)
}
