package config

import "fmt"

// BackfillConfig configures the historical expansion job.
type BackfillConfig struct {
	// Source is the merged CSV to expand. Empty means the merger output.
	Source string `json:"source"`
	// Quarters is the length of the generated history including the
	// source quarter.
	Quarters int `json:"quarters"`
	// Seed makes the generated variation reproducible.
	Seed int64 `json:"seed"`
	// MergedOutput receives the expanded merged table.
	MergedOutput string `json:"merged_output"`
	// WageOutput receives the wage subset of the expanded table.
	WageOutput string `json:"wage_output"`
}

// SetDefaults applies fallback values for optional fields.
func (c *BackfillConfig) SetDefaults() {
	if c.Quarters <= 0 {
		c.Quarters = 8
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.MergedOutput == "" {
		c.MergedOutput = "merged_labour_data_expanded.csv"
	}
	if c.WageOutput == "" {
		c.WageOutput = "wage_data_expanded.csv"
	}
}

// Validate checks the configuration ranges.
func (c BackfillConfig) Validate() error {
	if c.Quarters <= 0 {
		return fmt.Errorf("quarters must be >0")
	}
	return nil
}
