package config

import (
	"fmt"

	"github.com/ozstats/labourpipe/core/model"
)

// CleanerConfig configures the wage index cleaning stage.
type CleanerConfig struct {
	// Source is the raw ABS-style wage price index CSV.
	Source string `json:"source"`
	// TargetQuarter selects the reference quarter, e.g. "2025-Q3".
	TargetQuarter string `json:"target_quarter"`
	// Sector keeps only rows of this aggregate, compared loosely.
	Sector string `json:"sector"`
	// Output is the cleaned CSV, relative paths resolve under artifacts.dir.
	Output string `json:"output"`
	// Columns maps logical fields to source headers. Known keys: region,
	// region_code, quarter, index, sector.
	Columns map[string]string `json:"columns"`
}

var defaultWageColumns = map[string]string{
	"region":      "State_Territory",
	"region_code": "State_Code",
	"quarter":     "Quarter",
	"index":       "Wage_Price_Index",
	"sector":      "Data_Type",
}

// SetDefaults applies fallback values for optional fields.
func (c *CleanerConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = "data/wage_price_index_raw.csv"
	}
	if c.TargetQuarter == "" {
		c.TargetQuarter = "2025-Q3"
	}
	if c.Sector == "" {
		c.Sector = "All Sectors"
	}
	if c.Output == "" {
		c.Output = "wage_data_cleaned.csv"
	}
	if c.Columns == nil {
		c.Columns = map[string]string{}
	}
	for key, header := range defaultWageColumns {
		if c.Columns[key] == "" {
			c.Columns[key] = header
		}
	}
}

// Validate checks the configured values.
func (c CleanerConfig) Validate() error {
	if _, err := model.ParseQuarter(c.TargetQuarter); err != nil {
		return fmt.Errorf("target_quarter: %w", err)
	}
	for key := range c.Columns {
		if _, ok := defaultWageColumns[key]; !ok {
			return fmt.Errorf("unknown column key %q", key)
		}
	}
	return nil
}

// Target returns the parsed reference quarter.
func (c CleanerConfig) Target() model.Quarter {
	q, _ := model.ParseQuarter(c.TargetQuarter)
	return q
}
