// Package anomaly flags suspicious values in the input assumption columns:
// abrupt period-over-period jumps and values outside the meaningful domain.
// Flags are data-quality warnings, not errors — the recurrence still runs on
// flagged input, and it is the caller's report that surfaces them.
package anomaly

import (
	"math"

	"cashflow-validator/internal/model"
	"cashflow-validator/internal/projection"
)

// DefaultJumpThreshold is the absolute period-over-period change above which
// an assumption value is flagged. Assumption columns are rates, so 0.05 is a
// five-percentage-point move in one period.
const DefaultJumpThreshold = 0.05

// FlagKind distinguishes the warning types.
type FlagKind string

const (
	FlagJump       FlagKind = "jump"
	FlagOutOfRange FlagKind = "out_of_range"
)

// Flag is one warning, pinned to a column and row.
type Flag struct {
	Column string   `json:"column"`
	Row    int      `json:"row"`
	Kind   FlagKind `json:"kind"`
	Value  float64  `json:"value"`

	// Prev and Delta are set for jump flags.
	Prev  float64 `json:"prev,omitempty"`
	Delta float64 `json:"delta,omitempty"`
}

// DetectJumps flags rows where the column moves by more than threshold in
// absolute terms relative to the previous row. Rows holding NaN (empty cells)
// neither flag nor reset the comparison base.
func DetectJumps(column string, values []float64, threshold float64) []Flag {
	if threshold <= 0 {
		threshold = DefaultJumpThreshold
	}

	var flags []Flag
	prev := math.NaN()
	prevRow := -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if prevRow >= 0 {
			delta := math.Abs(v - prev)
			if delta > threshold {
				flags = append(flags, Flag{
					Column: column,
					Row:    i,
					Kind:   FlagJump,
					Value:  v,
					Prev:   prev,
					Delta:  delta,
				})
			}
		}
		prev = v
		prevRow = i
	}
	return flags
}

// DomainWarnings flags assumption values the recurrence accepts numerically
// but that have no actuarial meaning: decrement rates outside [0,1] and
// discount rates at or below -1.
func DomainWarnings(in projection.Inputs) []Flag {
	var flags []Flag
	for i, v := range in.DecrementRate {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 1 {
			flags = append(flags, Flag{
				Column: model.ColDeathRate,
				Row:    i,
				Kind:   FlagOutOfRange,
				Value:  v,
			})
		}
	}
	for i, v := range in.DiscountRate {
		if math.IsNaN(v) {
			continue
		}
		if v <= -1 {
			flags = append(flags, Flag{
				Column: model.ColDiscountRate,
				Row:    i,
				Kind:   FlagOutOfRange,
				Value:  v,
			})
		}
	}
	return flags
}

// ScanAssumptions runs jump detection over both assumption columns and
// appends the domain warnings.
func ScanAssumptions(in projection.Inputs, threshold float64) []Flag {
	flags := DetectJumps(model.ColDeathRate, in.DecrementRate, threshold)
	flags = append(flags, DetectJumps(model.ColDiscountRate, in.DiscountRate, threshold)...)
	flags = append(flags, DomainWarnings(in)...)
	return flags
}
