package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-validator/internal/anomaly"
	"cashflow-validator/internal/formula"
	"cashflow-validator/internal/model"
)

// sampleTable is the three-period projection with consistent reported values:
// survival [1, 0.9, 0.72], factor [1, 0.952381, 0.907029], PV ~ 151.02.
func sampleTable() *model.Table {
	cols := map[string][]float64{
		model.ColTime:               {1, 2, 3},
		model.ColCashflow:           {0, 100, 100},
		model.ColDeathRate:          {0, 0.1, 0.2},
		model.ColDiscountRate:       {0, 0.05, 0.05},
		model.ColSurvivalRate:       {1, 0.9, 0.72},
		model.ColDiscountFactor:     {1, 1 / 1.05, 1 / (1.05 * 1.05)},
		model.ColExpectedCashflow:   {0, 90, 72},
		model.ColDiscountedCashflow: {0, 90 / 1.05, 72 / (1.05 * 1.05)},
		model.ColPresentValue:       {90/1.05 + 72/(1.05*1.05), 0, 0},
	}
	names := []string{
		model.ColTime, model.ColCashflow, model.ColDeathRate, model.ColDiscountRate,
		model.ColSurvivalRate, model.ColDiscountFactor,
		model.ColExpectedCashflow, model.ColDiscountedCashflow, model.ColPresentValue,
	}
	return model.NewTable(names, cols)
}

func TestRun_EndToEndPasses(t *testing.T) {
	engine := New()

	res, err := engine.Run(sampleTable(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Periods)
	assert.True(t, res.Report.Passed())
	assert.InDelta(t, 151.020408, res.Derived.PresentValue, 1e-6)

	require.True(t, res.Report.PresentValue.Checked)
	assert.False(t, res.Report.PresentValue.Mismatched)

	// Death rate jumps 0.1 -> 0.2 exceeds the default 0.05 threshold; the
	// run still passes, the jump is only a warning.
	require.NotEmpty(t, res.Anomalies)
	assert.Equal(t, anomaly.FlagJump, res.Anomalies[0].Kind)
}

func TestRun_PerturbationFlagsOneMetric(t *testing.T) {
	table := sampleTable()
	table.Columns[model.ColDiscountedCashflow][1] += 1e-3

	res, err := New().Run(table, Options{})
	require.NoError(t, err)

	assert.False(t, res.Report.Passed())
	var mismatched []model.Metric
	for _, mr := range res.Report.Metrics {
		if mr.Mismatched {
			mismatched = append(mismatched, mr.Metric)
		}
	}
	assert.Equal(t, []model.Metric{model.MetricDiscountedCashflow}, mismatched)
}

func TestRun_MissingInputColumnIsFatal(t *testing.T) {
	table := sampleTable()
	delete(table.Columns, model.ColDeathRate)

	_, err := New().Run(table, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingColumn)
}

func TestRun_ClassifiesFormulasWhenRawCellsPresent(t *testing.T) {
	table := sampleTable()
	table.Raw = map[string][]string{
		model.ColSurvivalRate: {"1.0", "=E2*(1-C3)", "=E3*(1-C4)"},
		model.ColCashflow:     {"0", "100", "100"},
	}

	res, err := New().Run(table, Options{})
	require.NoError(t, err)

	require.Len(t, res.Classifications, 2)
	byCol := map[string]formula.Kind{}
	for _, cl := range res.Classifications {
		byCol[cl.Column] = cl.Kind
	}
	assert.Equal(t, formula.KindConstant, byCol[model.ColCashflow])
	assert.Equal(t, formula.KindInconsistent, byCol[model.ColSurvivalRate])
}

func TestRun_NoRawCellsNoClassifications(t *testing.T) {
	res, err := New().Run(sampleTable(), Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Classifications)
}

func TestRun_CustomBindings(t *testing.T) {
	table := sampleTable()
	table.Columns["Survival p"] = table.Columns[model.ColSurvivalRate]
	table.Names = append(table.Names, "Survival p")
	delete(table.Columns, model.ColSurvivalRate)

	res, err := New().Run(table, Options{
		Bindings: model.Bindings{
			model.MetricSurvivalRate: {"Survival p"},
		},
	})
	require.NoError(t, err)

	for _, mr := range res.Report.Metrics {
		if mr.Metric == model.MetricSurvivalRate {
			assert.True(t, mr.Checked)
			assert.Equal(t, "Survival p", mr.ReportedColumn)
			assert.False(t, mr.Mismatched)
		}
	}
}

func TestRun_NilTable(t *testing.T) {
	_, err := New().Run(nil, Options{})
	require.Error(t, err)
}
