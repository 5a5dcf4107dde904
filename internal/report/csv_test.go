package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-validator/internal/model"
	"cashflow-validator/internal/validate"
)

func TestWriteComparisonCSV(t *testing.T) {
	cols := map[string][]float64{
		model.ColTime:         {1, 2, 3},
		model.ColCashflow:     {0, 100, 100},
		model.ColDeathRate:    {0, 0.1, 0.2},
		model.ColDiscountRate: {0, 0.05, 0.05},
		model.ColSurvivalRate: {1, 0.9, 0.72},
	}
	names := []string{
		model.ColTime, model.ColCashflow, model.ColDeathRate,
		model.ColDiscountRate, model.ColSurvivalRate,
	}
	table := model.NewTable(names, cols)

	res, err := validate.New().Run(table, validate.Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "comparison.csv")
	require.NoError(t, WriteComparisonCSV(path, table, res))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// header + 3 period rows + present-value summary row
	require.Len(t, records, 5)
	assert.Equal(t, "row", records[0][0])
	assert.Equal(t, "survival_diff", records[0][9])

	// Survival was reported and matches: diff column is zero.
	assert.Equal(t, "0.000000", records[1][9])
	// Discount factor had no reported column: diff cell is empty.
	assert.Equal(t, "", records[1][10])

	// Summary row carries the computed present value.
	last := records[len(records)-1]
	assert.Equal(t, "present_value", last[0])
	assert.NotEmpty(t, last[8])
}
