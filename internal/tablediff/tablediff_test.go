package tablediff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-validator/internal/model"
)

func table(names []string, cols map[string][]float64) *model.Table {
	return model.NewTable(names, cols)
}

func TestCompare_IdenticalTables(t *testing.T) {
	a := table([]string{"Time", "Cashflow"}, map[string][]float64{
		"Time":     {1, 2, 3},
		"Cashflow": {0, 100, 100},
	})
	b := table([]string{"Time", "Cashflow"}, map[string][]float64{
		"Time":     {1, 2, 3},
		"Cashflow": {0, 100, 100},
	})

	rep := Compare(a, b, 1e-6)
	assert.True(t, rep.Identical())
}

func TestCompare_ChangedCells(t *testing.T) {
	a := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {0, 100, 100}})
	b := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {0, 100, 110}})

	rep := Compare(a, b, 1e-6)

	assert.False(t, rep.Identical())
	require.Len(t, rep.Changed, 1)
	cd := rep.Changed[0]
	assert.Equal(t, "Cashflow", cd.Column)
	require.Len(t, cd.Changed, 1)
	assert.Equal(t, 2, cd.Changed[0].Row)
	assert.Equal(t, 100.0, cd.Changed[0].Old)
	assert.Equal(t, 110.0, cd.Changed[0].New)
	assert.InDelta(t, 10.0, cd.Changed[0].Delta, 1e-12)
}

func TestCompare_AddedAndRemovedColumns(t *testing.T) {
	a := table([]string{"Time", "Cashflow"}, map[string][]float64{
		"Time":     {1, 2},
		"Cashflow": {10, 20},
	})
	b := table([]string{"Time", "PVFP"}, map[string][]float64{
		"Time": {1, 2},
		"PVFP": {30, 0},
	})

	rep := Compare(a, b, 1e-6)

	assert.Equal(t, []string{"PVFP"}, rep.AddedColumns)
	assert.Equal(t, []string{"Cashflow"}, rep.RemovedColumns)
	assert.Empty(t, rep.Changed)
}

func TestCompare_RowCountChange(t *testing.T) {
	a := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {10, 20, 30}})
	b := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {10, 20}})

	rep := Compare(a, b, 1e-6)

	assert.False(t, rep.Identical())
	require.Len(t, rep.Changed, 1)
	assert.Equal(t, 3, rep.Changed[0].OldRows)
	assert.Equal(t, 2, rep.Changed[0].NewRows)
	assert.Empty(t, rep.Changed[0].Changed)
}

func TestCompare_EmptyCells(t *testing.T) {
	a := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {10, math.NaN()}})
	b := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {10, 20}})

	rep := Compare(a, b, 1e-6)

	require.Len(t, rep.Changed, 1)
	require.Len(t, rep.Changed[0].Changed, 1)
	cell := rep.Changed[0].Changed[0]
	assert.Equal(t, 1, cell.Row)
	assert.True(t, cell.OldEmpty)
	assert.False(t, cell.NewEmpty)
	assert.Equal(t, 20.0, cell.New)

	// Both sides empty is not a change.
	c := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {10, math.NaN()}})
	d := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {10, math.NaN()}})
	assert.True(t, Compare(c, d, 1e-6).Identical())
}

func TestCompare_WithinToleranceIsNotAChange(t *testing.T) {
	a := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {100}})
	b := table([]string{"Cashflow"}, map[string][]float64{"Cashflow": {100.0000001}})

	assert.True(t, Compare(a, b, 1e-6).Identical())
}
