package config

import (
	"fmt"

	"github.com/ozstats/labourpipe/core/model"
)

// GeneratorConfig configures the synthetic ABS-style source generator.
type GeneratorConfig struct {
	// Seed makes generated sources reproducible.
	Seed int64 `json:"seed"`
	// StartQuarter is the first generated quarter, e.g. "2024-Q1".
	StartQuarter string `json:"start_quarter"`
	// Quarters is the number of consecutive quarters to generate.
	Quarters int `json:"quarters"`
	// NoiseSigma is the standard deviation of the index variation.
	NoiseSigma float64 `json:"noise_sigma"`
	// WageOutput is the raw wage CSV destination.
	WageOutput string `json:"wage_output"`
	// LabourOutput is the labour force CSV destination.
	LabourOutput string `json:"labour_output"`
}

// SetDefaults applies fallback values for optional fields.
func (c *GeneratorConfig) SetDefaults() {
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.StartQuarter == "" {
		c.StartQuarter = "2024-Q1"
	}
	if c.Quarters <= 0 {
		c.Quarters = 7
	}
	if c.NoiseSigma == 0 {
		c.NoiseSigma = 0.2
	}
	if c.WageOutput == "" {
		c.WageOutput = "data/wage_price_index_raw.csv"
	}
	if c.LabourOutput == "" {
		c.LabourOutput = "data/labour_force_cleaned.csv"
	}
}

// Validate checks the configuration ranges.
func (c GeneratorConfig) Validate() error {
	if _, err := model.ParseQuarter(c.StartQuarter); err != nil {
		return fmt.Errorf("start_quarter: %w", err)
	}
	if c.Quarters <= 0 {
		return fmt.Errorf("quarters must be >0")
	}
	if c.NoiseSigma < 0 {
		return fmt.Errorf("noise_sigma must be >=0")
	}
	return nil
}

// Start returns the parsed first quarter.
func (c GeneratorConfig) Start() model.Quarter {
	q, _ := model.ParseQuarter(c.StartQuarter)
	return q
}
