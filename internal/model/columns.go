package model

// Canonical column headers as they appear in the source workbook.
// Keep these values stable; they are matched verbatim against sheet headers.
const (
	ColTime               = "Time"
	ColCashflow           = "Cashflow"
	ColDeathRate          = "Death rate"
	ColDiscountRate       = "Discount rate"
	ColSurvivalRate       = "Survival rate"
	ColDiscountFactor     = "Discount factor"
	ColExpectedCashflow   = "Expected Cashflow"
	ColDiscountedCashflow = "Discounted cashflow"
	ColPresentValue       = "PVFP"

	// ColDiscountFactorAlias is how spreadsheet exports surface a second
	// "Discount rate" header: the duplicate gets a ".1" suffix. Some workbook
	// versions store the discount factor there instead of under its own name.
	ColDiscountFactorAlias = "Discount rate.1"
)

// Metric identifies one recomputed quantity in the mismatch report.
type Metric string

const (
	MetricSurvivalRate       Metric = "survival_rate"
	MetricDiscountFactor     Metric = "discount_factor"
	MetricExpectedCashflow   Metric = "expected_cashflow"
	MetricDiscountedCashflow Metric = "discounted_cashflow"
	MetricPresentValue       Metric = "present_value"
)

// SequenceMetrics is the comparison order for the per-row metrics.
// The present-value aggregate is reported separately as a scalar.
var SequenceMetrics = []Metric{
	MetricSurvivalRate,
	MetricDiscountFactor,
	MetricExpectedCashflow,
	MetricDiscountedCashflow,
}

// Bindings maps each metric to the reported-column names that may carry its
// sheet-supplied values, in priority order. Resolving the binding once at the
// boundary replaces the per-variant hardcoding the workbook versions grew.
type Bindings map[Metric][]string

// DefaultBindings covers the known workbook layouts, including the
// duplicate-header alias for the discount factor.
func DefaultBindings() Bindings {
	return Bindings{
		MetricSurvivalRate:       {ColSurvivalRate},
		MetricDiscountFactor:     {ColDiscountFactor, ColDiscountFactorAlias},
		MetricExpectedCashflow:   {ColExpectedCashflow},
		MetricDiscountedCashflow: {ColDiscountedCashflow},
		MetricPresentValue:       {ColPresentValue},
	}
}

// Merge overlays non-empty bindings from override onto b, returning a copy.
func (b Bindings) Merge(override Bindings) Bindings {
	out := make(Bindings, len(b))
	for m, cols := range b {
		out[m] = cols
	}
	for m, cols := range override {
		if len(cols) > 0 {
			out[m] = cols
		}
	}
	return out
}
