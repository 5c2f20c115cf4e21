package config

import (
	"fmt"

	"github.com/ozstats/labourpipe/core/model"
)

// MergerConfig configures the dataset merge stage.
type MergerConfig struct {
	// LabourSource is the labour force CSV, one row per region.
	LabourSource string `json:"labour_source"`
	// WageSource overrides the cleaned wage CSV location. Empty means the
	// cleaner output; a missing file falls back to cleaning cleaner.source
	// in memory.
	WageSource string `json:"wage_source"`
	// Output is the merged CSV, relative paths resolve under artifacts.dir.
	Output string `json:"output"`
	// Columns maps logical fields to labour source headers. Known keys:
	// region, region_code, employment_rate, unemployment_rate,
	// participation_rate, labour_force, population, quarter.
	Columns map[string]string `json:"columns"`
	// VacancyRates holds job vacancies per 1000 labour force by region code.
	VacancyRates map[string]float64 `json:"vacancy_rates"`
}

var defaultLabourColumns = map[string]string{
	"region":             "State",
	"region_code":        "State_Code",
	"employment_rate":    "Employment_Rate",
	"unemployment_rate":  "Unemployment_Rate",
	"participation_rate": "Participation_Rate",
	"labour_force":       "Labour_Force",
	"population":         "Population",
	"quarter":            "Year_Quarter",
}

// defaultVacancyRates follows published ABS job vacancy patterns.
var defaultVacancyRates = map[string]float64{
	"NSW": 28.5,
	"VIC": 26.8,
	"QLD": 24.2,
	"WA":  32.1,
	"SA":  21.4,
	"TAS": 19.8,
	"ACT": 31.7,
	"NT":  29.3,
}

// SetDefaults applies fallback values for optional fields.
func (c *MergerConfig) SetDefaults() {
	if c.LabourSource == "" {
		c.LabourSource = "data/labour_force_cleaned.csv"
	}
	if c.Output == "" {
		c.Output = "merged_labour_data.csv"
	}
	if c.Columns == nil {
		c.Columns = map[string]string{}
	}
	for key, header := range defaultLabourColumns {
		if c.Columns[key] == "" {
			c.Columns[key] = header
		}
	}
	if c.VacancyRates == nil {
		c.VacancyRates = map[string]float64{}
	}
	for code, rate := range defaultVacancyRates {
		if _, ok := c.VacancyRates[code]; !ok {
			c.VacancyRates[code] = rate
		}
	}
}

// Validate checks the configured values.
func (c MergerConfig) Validate() error {
	for key := range c.Columns {
		if _, ok := defaultLabourColumns[key]; !ok {
			return fmt.Errorf("unknown column key %q", key)
		}
	}
	for code, rate := range c.VacancyRates {
		if _, ok := model.ParseRegion(code); !ok {
			return fmt.Errorf("vacancy_rates: unknown region %q", code)
		}
		if rate < 0 {
			return fmt.Errorf("vacancy_rates: negative rate for %s", code)
		}
	}
	return nil
}

// VacancyRate returns the configured rate for the region, zero when unset.
func (c MergerConfig) VacancyRate(r model.Region) float64 {
	return c.VacancyRates[string(r)]
}
