// Package report renders the detailed comparison table: one CSV row per
// period with the inputs, the recomputed sequences, and the per-metric
// differences where a reported column was available.
package report

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"cashflow-validator/internal/model"
	"cashflow-validator/internal/projection"
	"cashflow-validator/internal/reconcile"
	"cashflow-validator/internal/validate"
)

// WriteComparisonCSV writes the per-period comparison table for one run.
func WriteComparisonCSV(path string, t *model.Table, res *validate.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"row",
		"time",
		"cashflow",
		"death_rate",
		"discount_rate",
		"survival_calc",
		"discount_factor_calc",
		"expected_cashflow_calc",
		"discounted_cashflow_calc",
		"survival_diff",
		"discount_factor_diff",
		"expected_cashflow_diff",
		"discounted_cashflow_diff",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	in, err := projection.InputsFromTable(t)
	if err != nil {
		return err
	}

	diffCols := make(map[model.Metric]reconcile.MetricReport, len(res.Report.Metrics))
	for _, mr := range res.Report.Metrics {
		if mr.Checked {
			diffCols[mr.Metric] = mr
		}
	}

	for i := 0; i < res.Periods; i++ {
		row := []string{
			strconv.Itoa(i),
			fmtFloat(in.Time[i]),
			fmtFloat(in.Cashflow[i]),
			fmtFloat(in.DecrementRate[i]),
			fmtFloat(in.DiscountRate[i]),
			fmtFloat(res.Derived.Survival[i]),
			fmtFloat(res.Derived.DiscountFactor[i]),
			fmtFloat(res.Derived.ExpectedCashflow[i]),
			fmtFloat(res.Derived.DiscountedCashflow[i]),
			fmtDiff(diffCols[model.MetricSurvivalRate], i),
			fmtDiff(diffCols[model.MetricDiscountFactor], i),
			fmtDiff(diffCols[model.MetricExpectedCashflow], i),
			fmtDiff(diffCols[model.MetricDiscountedCashflow], i),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// Trailing summary row for the present-value aggregate.
	pv := res.Report.PresentValue
	summary := []string{
		"present_value", "", "", "", "",
		"", "", "", fmtFloat(pv.Computed),
		"", "", "", pvDiff(pv),
	}
	if err := w.Write(summary); err != nil {
		return err
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// fmtDiff renders one difference cell; empty when the metric was not checked,
// the row lies beyond the reported column, or the reported cell was blank.
func fmtDiff(mr reconcile.MetricReport, i int) string {
	if !mr.Checked || i >= len(mr.Diffs) {
		return ""
	}
	for _, e := range mr.Empty {
		if e == i {
			return ""
		}
	}
	return fmtFloat(mr.Diffs[i])
}

func pvDiff(pv reconcile.PresentValueReport) string {
	if !pv.Checked {
		return ""
	}
	return fmtFloat(pv.Diff)
}
