package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-validator/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 1e-6, c.Tolerance)
	assert.Equal(t, 0.05, c.JumpThreshold)
}

func TestLoad_OverlaysOnDefaults(t *testing.T) {
	path := writeConfig(t, `
tolerance: 0.001
aliases:
  discount_factor: ["Discount rate.1"]
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.001, c.Tolerance)
	// Unset fields keep their defaults.
	assert.Equal(t, 0.05, c.JumpThreshold)
	assert.Equal(t, "results/comparison.csv", c.Report.Out)
}

func TestLoad_RejectsUnknownAliasMetric(t *testing.T) {
	path := writeConfig(t, `
aliases:
  not_a_metric: ["Whatever"]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_a_metric")
}

func TestLoad_RejectsNegativeTolerance(t *testing.T) {
	path := writeConfig(t, "tolerance: -1\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestBindings_AliasOverrideReplacesDefault(t *testing.T) {
	c := Default()
	c.Aliases = map[string][]string{
		string(model.MetricDiscountFactor): {"Discount rate.1"},
	}

	b := c.Bindings()

	assert.Equal(t, []string{"Discount rate.1"}, b[model.MetricDiscountFactor])
	// Other metrics keep the default binding.
	assert.Equal(t, []string{model.ColSurvivalRate}, b[model.MetricSurvivalRate])
}

func TestMerge_ZeroFieldsDoNotOverride(t *testing.T) {
	base := Default()
	merged := Merge(base, &Config{Tolerance: 0.01})

	assert.Equal(t, 0.01, merged.Tolerance)
	assert.Equal(t, base.JumpThreshold, merged.JumpThreshold)
	assert.Equal(t, base.Report.Out, merged.Report.Out)
	// base is untouched
	assert.Equal(t, 1e-6, base.Tolerance)
}
