package types

import "payout-calc/internal/errors"

// Status is the per-row outcome reported next to computed values.
type Status string

const (
	StatusOK                  Status = "OK"
	StatusPriceExceedsCeiling Status = "PRICE_EXCEEDS_CEILING"
	StatusProfitNotPossible   Status = "PROFIT_NOT_POSSIBLE"
	StatusInvalidInput        Status = "INVALID_INPUT"
	StatusComputationFailure  Status = "COMPUTATION_FAILURE"
)

// Label is the text written to the Status column of exports.
func (s Status) Label() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusPriceExceedsCeiling:
		return "Error: Sale Price > MRP"
	case StatusProfitNotPossible:
		return "Profit Not Possible"
	case StatusInvalidInput:
		return "Error: invalid input"
	case StatusComputationFailure:
		return "Error: computation failed"
	}
	return string(s)
}

// IsFailure reports whether the row produced no usable numbers.
func (s Status) IsFailure() bool {
	return s == StatusInvalidInput || s == StatusComputationFailure
}

// StatusForError maps a row error onto the status that reports it.
func StatusForError(err error) Status {
	if errors.IsType(err, errors.TypeComputation) {
		return StatusComputationFailure
	}
	return StatusInvalidInput
}
