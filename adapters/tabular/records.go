package tabular

import (
	"iter"
	"math"
	"regexp"
	"strconv"
	"strings"

	"payout-calc/core/batch"
	"payout-calc/core/output"
	"payout-calc/core/types"
	"payout-calc/internal/errors"
)

// Required returns the columns an upload for dir must carry.
func Required(dir types.Direction) []string {
	if dir == types.DirectionBackward {
		return output.PriceRequired
	}
	return output.PayoutRequired
}

// Records maps table rows to batch records for the given direction. The
// sequence is lazy; a row with a missing or non-numeric required cell yields
// a record carrying Err and does not stop the sequence.
func Records(t *Table, dir types.Direction) iter.Seq[batch.Record] {
	return func(yield func(batch.Record) bool) {
		for i, row := range t.Rows {
			rec := parseRow(t, row, dir)
			rec.Row = i + 1
			if i < len(t.RowNumbers) {
				rec.Row = t.RowNumbers[i]
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// PayoutRecords is Records for the forward direction.
func PayoutRecords(t *Table) iter.Seq[batch.Record] {
	return Records(t, types.DirectionForward)
}

// PriceRecords is Records for the backward direction.
func PriceRecords(t *Table) iter.Seq[batch.Record] {
	return Records(t, types.DirectionBackward)
}

type field struct {
	column   string
	dst      *float64
	required bool
}

func parseRow(t *Table, row []string, dir types.Direction) batch.Record {
	var in types.ProductInput
	in.SKU, _ = t.Cell(row, output.ColSKU)

	fields := []field{
		{output.ColCost, &in.Cost, true},
		{output.ColGSTRate, &in.GSTRatePercent, true},
		{output.ColRoyalty, &in.RoyaltyPercent, true},
	}
	if dir == types.DirectionForward {
		fields = append([]field{{output.ColSalePrice, &in.SalePrice, true}}, fields...)
	} else {
		fields = append(fields, field{output.ColTargetProfit, &in.TargetProfit, true})
	}

	raw := make(map[string]string)
	var problems []string
	for _, f := range fields {
		s, ok := t.Cell(row, f.column)
		if ok {
			raw[f.column] = s
		}
		if s == "" {
			if f.required {
				problems = append(problems, f.column+" is empty")
			}
			continue
		}
		v, ok := ParseNumber(s)
		if !ok {
			problems = append(problems, NotANumber(f.column, s))
			continue
		}
		*f.dst = v
	}

	if dir == types.DirectionBackward {
		if s, ok := t.Cell(row, output.ColMRP); ok && s != "" {
			raw[output.ColMRP] = s
			if v, ok := ParseNumber(s); !ok {
				problems = append(problems, NotANumber(output.ColMRP, s))
			} else {
				in.PriceCeiling = &v
			}
		}
	}

	rec := batch.Record{Input: in, Raw: raw}
	if len(problems) > 0 {
		rec.Err = errors.Input(strings.Join(problems, "; "))
	}
	return rec
}

// grouped matches numbers written with thousands separators, either
// 1,234,567 or the lakh form 12,34,567.
var grouped = regexp.MustCompile(`^[+-]?(\d{1,3}(,\d{3})+|\d{1,2}(,\d{2})+,\d{3})(\.\d*)?$`)

// ParseNumber accepts plain and thousands-separated numbers and rejects
// NaN and infinities. Commas are only allowed as group separators.
func ParseNumber(s string) (float64, bool) {
	if strings.Contains(s, ",") {
		if !grouped.MatchString(s) {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NotANumber is the row problem reported for a cell that is not numeric.
func NotANumber(column, cell string) string {
	return column + " is not a number: " + strconv.Quote(cell)
}
