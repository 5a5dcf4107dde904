package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-validator/internal/model"
)

func threePeriodInputs() Inputs {
	return Inputs{
		Time:          []float64{1, 2, 3},
		Cashflow:      []float64{0, 100, 100},
		DecrementRate: []float64{0, 0.1, 0.2},
		DiscountRate:  []float64{0, 0.05, 0.05},
	}
}

func TestEvaluate_ThreePeriodScenario(t *testing.T) {
	d, err := Evaluate(threePeriodInputs())
	require.NoError(t, err)

	// Seeds are exact by definition, not merely within tolerance.
	assert.Equal(t, 1.0, d.Survival[0])
	assert.Equal(t, 1.0, d.DiscountFactor[0])

	assert.InDelta(t, 0.9, d.Survival[1], 1e-12)
	assert.InDelta(t, 0.72, d.Survival[2], 1e-12)

	assert.InDelta(t, 0.952381, d.DiscountFactor[1], 1e-6)
	assert.InDelta(t, 0.907029, d.DiscountFactor[2], 1e-6)

	assert.InDelta(t, 0.0, d.ExpectedCashflow[0], 1e-12)
	assert.InDelta(t, 90.0, d.ExpectedCashflow[1], 1e-9)
	assert.InDelta(t, 72.0, d.ExpectedCashflow[2], 1e-9)

	assert.InDelta(t, 85.714286, d.DiscountedCashflow[1], 1e-6)
	assert.InDelta(t, 65.306122, d.DiscountedCashflow[2], 1e-6)

	assert.InDelta(t, 151.020408, d.PresentValue, 1e-6)
}

func TestEvaluate_PresentValueIsExactSum(t *testing.T) {
	d, err := Evaluate(threePeriodInputs())
	require.NoError(t, err)

	sum := 0.0
	for _, v := range d.DiscountedCashflow {
		sum += v
	}
	// Exact, since the evaluator accumulates the same sequence in order.
	assert.Equal(t, sum, d.PresentValue)
}

func TestEvaluate_RecurrenceHoldsRowByRow(t *testing.T) {
	in := Inputs{
		Time:          []float64{1, 2, 3, 4, 5},
		Cashflow:      []float64{10, 20, 30, 40, 50},
		DecrementRate: []float64{0, 0.01, 0.02, 0.03, 0.04},
		DiscountRate:  []float64{0, 0.03, 0.03, 0.04, 0.05},
	}
	d, err := Evaluate(in)
	require.NoError(t, err)

	for i := 1; i < len(in.Time); i++ {
		assert.Equal(t, d.Survival[i-1]*(1-in.DecrementRate[i]), d.Survival[i], "survival row %d", i)
		assert.Equal(t, d.DiscountFactor[i-1]/(1+in.DiscountRate[i]), d.DiscountFactor[i], "factor row %d", i)
	}

	// Survival is monotonic non-increasing while decrements stay in [0,1].
	for i := 1; i < len(d.Survival); i++ {
		assert.LessOrEqual(t, d.Survival[i], d.Survival[i-1])
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	in := threePeriodInputs()

	first, err := Evaluate(in)
	require.NoError(t, err)
	second, err := Evaluate(in)
	require.NoError(t, err)

	// Bit-identical on identical input.
	assert.Equal(t, first, second)
}

func TestEvaluate_ZeroPeriods(t *testing.T) {
	d, err := Evaluate(Inputs{})
	require.NoError(t, err)

	assert.Empty(t, d.Survival)
	assert.Empty(t, d.DiscountFactor)
	assert.Empty(t, d.ExpectedCashflow)
	assert.Empty(t, d.DiscountedCashflow)
	assert.Zero(t, d.PresentValue)
}

func TestEvaluate_MisalignedLength(t *testing.T) {
	in := threePeriodInputs()
	in.Cashflow = in.Cashflow[:2]

	_, err := Evaluate(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMisalignedLength)
}

func TestEvaluate_DiscountRateMinusOne(t *testing.T) {
	in := threePeriodInputs()
	in.DiscountRate[2] = -1

	_, err := Evaluate(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNumericDomain)
}

func TestEvaluate_AcceptsOutOfDomainRates(t *testing.T) {
	// Rates outside the meaningful domain still execute; flagging them is
	// the caller's job.
	in := Inputs{
		Time:          []float64{1, 2},
		Cashflow:      []float64{100, 100},
		DecrementRate: []float64{0, 1.5},
		DiscountRate:  []float64{0, -0.5},
	}
	d, err := Evaluate(in)
	require.NoError(t, err)

	assert.InDelta(t, -0.5, d.Survival[1], 1e-12)
	assert.InDelta(t, 2.0, d.DiscountFactor[1], 1e-12)
}

func TestInputsFromTable_MissingColumn(t *testing.T) {
	table := model.NewTable(
		[]string{model.ColTime, model.ColCashflow, model.ColDeathRate},
		map[string][]float64{
			model.ColTime:      {1, 2},
			model.ColCashflow:  {10, 20},
			model.ColDeathRate: {0, 0.1},
		},
	)

	_, err := InputsFromTable(table)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingColumn)
	assert.Contains(t, err.Error(), model.ColDiscountRate)
}
