// Package projection recomputes the derived cashflow sequences from the
// stated input assumptions. It is a pure function from ordered input columns
// to ordered output columns: no table handle, no shared accumulator, no
// validation of the input domain beyond what makes the arithmetic undefined.
package projection

import (
	"fmt"

	"cashflow-validator/internal/model"
)

// Inputs are the four assumption columns, aligned by period.
// Index 0 is the first period.
type Inputs struct {
	Time          []float64
	Cashflow      []float64
	DecrementRate []float64 // per-period mortality/lapse probability
	DiscountRate  []float64
}

// Derived holds the recomputed sequences plus the present-value aggregate.
// Each sequence has exactly one entry per input period.
type Derived struct {
	Survival           []float64
	DiscountFactor     []float64
	ExpectedCashflow   []float64
	DiscountedCashflow []float64
	PresentValue       float64
}

// InputsFromTable resolves the four required input columns from a parsed
// table. Missing columns are fatal and name the column.
func InputsFromTable(t *model.Table) (Inputs, error) {
	var in Inputs
	for _, c := range []struct {
		name string
		dst  *[]float64
	}{
		{model.ColTime, &in.Time},
		{model.ColCashflow, &in.Cashflow},
		{model.ColDeathRate, &in.DecrementRate},
		{model.ColDiscountRate, &in.DiscountRate},
	} {
		vals, ok := t.Column(c.name)
		if !ok {
			return Inputs{}, fmt.Errorf("%w: %q", model.ErrMissingColumn, c.name)
		}
		*c.dst = vals
	}
	return in, nil
}

// Evaluate runs the recurrences over the input columns:
//
//	survival[0] = 1;  survival[i] = survival[i-1] * (1 - decrement[i])
//	factor[0]   = 1;  factor[i]   = factor[i-1] / (1 + discount[i])
//	expected[i]   = cashflow[i] * survival[i]
//	discounted[i] = expected[i] * factor[i]
//	present value = sum(discounted)
//
// The discounted cashflow always uses the *computed* discount factor, never a
// sheet-supplied one, so an error in one reported column cannot cancel
// against an error in another.
//
// Zero periods yields empty sequences and a present value of 0. Decrement
// rates outside [0,1] and discount rates below -1 execute numerically; only a
// discount rate of exactly -1 is rejected, since the recurrence divides by
// 1 + rate.
func Evaluate(in Inputs) (*Derived, error) {
	n := len(in.Time)
	for _, col := range [][]float64{in.Cashflow, in.DecrementRate, in.DiscountRate} {
		if len(col) != n {
			return nil, fmt.Errorf("%w: %d vs %d", model.ErrMisalignedLength, n, len(col))
		}
	}

	d := &Derived{
		Survival:           make([]float64, n),
		DiscountFactor:     make([]float64, n),
		ExpectedCashflow:   make([]float64, n),
		DiscountedCashflow: make([]float64, n),
	}
	if n == 0 {
		return d, nil
	}

	d.Survival[0] = 1.0
	d.DiscountFactor[0] = 1.0
	for i := 1; i < n; i++ {
		if in.DiscountRate[i] == -1 {
			return nil, fmt.Errorf("%w: discount rate -1 at row %d", model.ErrNumericDomain, i)
		}
		d.Survival[i] = d.Survival[i-1] * (1 - in.DecrementRate[i])
		d.DiscountFactor[i] = d.DiscountFactor[i-1] / (1 + in.DiscountRate[i])
	}

	pv := 0.0
	for i := 0; i < n; i++ {
		d.ExpectedCashflow[i] = in.Cashflow[i] * d.Survival[i]
		d.DiscountedCashflow[i] = d.ExpectedCashflow[i] * d.DiscountFactor[i]
		pv += d.DiscountedCashflow[i]
	}
	d.PresentValue = pv

	return d, nil
}

// Sequence returns the derived sequence for a per-row metric.
func (d *Derived) Sequence(m model.Metric) ([]float64, bool) {
	switch m {
	case model.MetricSurvivalRate:
		return d.Survival, true
	case model.MetricDiscountFactor:
		return d.DiscountFactor, true
	case model.MetricExpectedCashflow:
		return d.ExpectedCashflow, true
	case model.MetricDiscountedCashflow:
		return d.DiscountedCashflow, true
	default:
		return nil, false
	}
}
