// Package reconcile compares recomputed sequences against the sheet-supplied
// ("reported") columns and flags any difference beyond an absolute tolerance.
package reconcile

import (
	"math"

	"cashflow-validator/internal/model"
	"cashflow-validator/internal/projection"
)

// DefaultTolerance matches the workbook convention for float comparison.
const DefaultTolerance = 1e-6

// MetricReport is the comparison outcome for one per-row metric.
//
// Checked distinguishes "reported column absent, nothing compared" from
// "compared and passed": an unchecked metric is never a mismatch, but callers
// must not present it as verified either.
type MetricReport struct {
	Metric         model.Metric `json:"metric"`
	Checked        bool         `json:"checked"`
	ReportedColumn string       `json:"reported_column,omitempty"`
	Mismatched     bool         `json:"mismatched"`

	// Diffs holds the per-row absolute differences, one per period.
	// Present only when Checked. Never NaN: the report is JSON-marshalled
	// and NaN has no encoding, so incomparable rows carry a zero here and
	// are listed in Empty instead.
	Diffs []float64 `json:"diffs,omitempty"`

	// Rows lists the row indexes whose difference exceeds the tolerance.
	Rows []int `json:"rows,omitempty"`

	// Empty lists the row indexes whose reported cell was blank or
	// unparsable. These rows count as mismatched: a hole in a reported
	// column must not pass as verified.
	Empty []int `json:"empty_rows,omitempty"`
}

// PresentValueReport carries both scalars so a human can read the disagreement
// directly, not just its magnitude.
type PresentValueReport struct {
	Checked    bool    `json:"checked"`
	Mismatched bool    `json:"mismatched"`
	Computed   float64 `json:"computed"`
	Reported   float64 `json:"reported,omitempty"`
	Diff       float64 `json:"diff,omitempty"`
}

// Report is one validation run's mismatch report. Created fresh per run,
// never persisted.
type Report struct {
	Tolerance    float64            `json:"tolerance"`
	Metrics      []MetricReport     `json:"metrics"`
	PresentValue PresentValueReport `json:"present_value"`
}

// Passed reports whether every checked metric (including the aggregate)
// agreed within tolerance.
func (r *Report) Passed() bool {
	for _, m := range r.Metrics {
		if m.Checked && m.Mismatched {
			return false
		}
	}
	if r.PresentValue.Checked && r.PresentValue.Mismatched {
		return false
	}
	return true
}

// Run compares every derived sequence, and the present-value aggregate,
// against its reported counterpart resolved through bindings.
//
// A metric whose reported column is absent is skipped (Checked=false) and the
// run continues; this is the only non-fatal gap. The comparison is absolute,
// not relative: callers working at extreme magnitudes must rescale first.
func Run(d *projection.Derived, t *model.Table, bindings model.Bindings, tolerance float64) *Report {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if bindings == nil {
		bindings = model.DefaultBindings()
	}

	rep := &Report{Tolerance: tolerance}

	for _, metric := range model.SequenceMetrics {
		computed, _ := d.Sequence(metric)
		mr := MetricReport{Metric: metric}

		name, reported, ok := t.Resolve(bindings[metric])
		if ok {
			mr.Checked = true
			mr.ReportedColumn = name
			mr.Mismatched, mr.Diffs, mr.Rows, mr.Empty = CompareSequences(computed, reported, tolerance)
		}
		rep.Metrics = append(rep.Metrics, mr)
	}

	rep.PresentValue = comparePresentValue(d.PresentValue, t, bindings, tolerance)
	return rep
}

// CompareSequences computes the row-wise absolute differences and reports a
// mismatch if any strictly exceeds the tolerance. Sequences of unequal length
// are compared over the shared prefix; the extra rows of the longer side are
// counted as mismatched rows (without a difference entry), so a truncated
// reported column cannot pass silently.
//
// A NaN on either side (a blank or unparsable cell) makes the row
// incomparable: it is a mismatch, listed in the empty set, and its diff entry
// is zeroed so NaN never reaches the JSON encoder.
func CompareSequences(computed, reported []float64, tolerance float64) (bool, []float64, []int, []int) {
	n := len(computed)
	if len(reported) < n {
		n = len(reported)
	}

	diffs := make([]float64, 0, n)
	var rows, empty []int
	mismatched := false

	for i := 0; i < n; i++ {
		diff := math.Abs(computed[i] - reported[i])
		if math.IsNaN(diff) {
			diffs = append(diffs, 0)
			rows = append(rows, i)
			empty = append(empty, i)
			mismatched = true
			continue
		}
		diffs = append(diffs, diff)
		if diff > tolerance {
			mismatched = true
			rows = append(rows, i)
		}
	}
	for i := n; i < max(len(computed), len(reported)); i++ {
		mismatched = true
		rows = append(rows, i)
	}

	return mismatched, diffs, rows, empty
}

// comparePresentValue reads the reported total from the first row of the
// bound column (the workbook convention) and compares the scalars.
func comparePresentValue(computed float64, t *model.Table, bindings model.Bindings, tolerance float64) PresentValueReport {
	pv := PresentValueReport{Computed: computed}

	_, reported, ok := t.Resolve(bindings[model.MetricPresentValue])
	if !ok || len(reported) == 0 || math.IsNaN(reported[0]) {
		return pv
	}

	pv.Checked = true
	pv.Reported = reported[0]
	pv.Diff = math.Abs(computed - reported[0])
	pv.Mismatched = pv.Diff > tolerance
	return pv
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
