// Package validate orchestrates one validation run: recompute the derived
// sequences, reconcile them against the reported columns, classify the cell
// formulas, and scan the assumptions for anomalies.
package validate

import (
	"fmt"

	"cashflow-validator/internal/anomaly"
	"cashflow-validator/internal/formula"
	"cashflow-validator/internal/model"
	"cashflow-validator/internal/projection"
	"cashflow-validator/internal/reconcile"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Options control one run. Zero values fall back to the defaults.
type Options struct {
	Tolerance     float64
	JumpThreshold float64
	Bindings      model.Bindings
}

// Result bundles everything one run produces. The derived sequences are kept
// so callers can render the full comparison table, not just the verdict.
type Result struct {
	Periods         int
	Derived         *projection.Derived
	Report          *reconcile.Report
	Classifications []formula.Classification
	Anomalies       []anomaly.Flag
}

// Run validates one table. Missing or misaligned input columns and a
// discount rate of -1 are fatal; a missing reported column only leaves that
// metric unchecked. The input table is never mutated.
func (e *Engine) Run(t *model.Table, opts Options) (*Result, error) {
	if t == nil {
		return nil, fmt.Errorf("table is nil")
	}

	in, err := projection.InputsFromTable(t)
	if err != nil {
		return nil, err
	}

	derived, err := projection.Evaluate(in)
	if err != nil {
		return nil, err
	}

	bindings := model.DefaultBindings()
	if opts.Bindings != nil {
		bindings = bindings.Merge(opts.Bindings)
	}

	res := &Result{
		Periods: len(in.Time),
		Derived: derived,
		Report:  reconcile.Run(derived, t, bindings, opts.Tolerance),
	}

	if t.Raw != nil {
		res.Classifications = formula.ClassifyAll(t.Names, t.Raw)
	}
	res.Anomalies = anomaly.ScanAssumptions(in, opts.JumpThreshold)

	return res, nil
}
