package config

import (
	"errors"
	"fmt"
	"os"

	"cashflow-validator/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Tolerance is the absolute comparison tolerance for reconciliation.
	Tolerance float64 `yaml:"tolerance"`

	// JumpThreshold is the absolute period-over-period change in an
	// assumption column that gets flagged as anomalous.
	JumpThreshold float64 `yaml:"jump_threshold"`

	// Aliases overrides the reported-column binding per metric, e.g.
	//   aliases:
	//     discount_factor: ["Discount factor", "Discount rate.1"]
	Aliases map[string][]string `yaml:"aliases"`

	Report ReportConfig `yaml:"report"`
}

type ReportConfig struct {
	// Out is the default path for the detailed comparison CSV.
	Out string `yaml:"out"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Tolerance:     1e-6,
		JumpThreshold: 0.05,
		Report:        ReportConfig{Out: "results/comparison.csv"},
	}
}

// Load reads a YAML config, overlays it on the defaults, and validates it.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return Merge(Default(), &c), nil
}

// Merge overlays non-zero fields from override onto base, returning a copy.
func Merge(base, override *Config) *Config {
	out := *base
	if override.Tolerance != 0 {
		out.Tolerance = override.Tolerance
	}
	if override.JumpThreshold != 0 {
		out.JumpThreshold = override.JumpThreshold
	}
	if len(override.Aliases) != 0 {
		out.Aliases = override.Aliases
	}
	if override.Report.Out != "" {
		out.Report.Out = override.Report.Out
	}
	return &out
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Tolerance <= 0 {
		return errors.New("tolerance must be > 0")
	}
	if c.JumpThreshold <= 0 {
		return errors.New("jump_threshold must be > 0")
	}
	for metric := range c.Aliases {
		if !knownMetric(model.Metric(metric)) {
			return fmt.Errorf("aliases: unknown metric %q", metric)
		}
	}
	return nil
}

// Bindings resolves the alias overrides into a full metric binding map.
func (c *Config) Bindings() model.Bindings {
	override := make(model.Bindings, len(c.Aliases))
	for metric, cols := range c.Aliases {
		override[model.Metric(metric)] = cols
	}
	return model.DefaultBindings().Merge(override)
}

func knownMetric(m model.Metric) bool {
	if m == model.MetricPresentValue {
		return true
	}
	for _, known := range model.SequenceMetrics {
		if m == known {
			return true
		}
	}
	return false
}
