// Package scenarios runs YAML-described QA cases: each scenario perturbs a
// canonical two-quarter wage extract and states the outcome the pipeline
// must reach. New cases are added by dropping a .yaml file next to the
// existing ones.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ozstats/labourpipe/core/pipeline"
)

// Scenario describes one QA case. Region lists use canonical codes.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Regions present in the wage extract. Empty means all eight.
	Regions []string `yaml:"regions,omitempty"`
	// DropYearAgo removes the prior-year observation for these regions,
	// leaving their annual growth underivable.
	DropYearAgo []string `yaml:"drop_year_ago,omitempty"`
	// BlankIndex replaces the reference-quarter index cell for these
	// regions with the source's missing marker.
	BlankIndex []string `yaml:"blank_index,omitempty"`
	// OffSector retags the reference-quarter row for these regions so the
	// sector filter discards it.
	OffSector []string `yaml:"off_sector,omitempty"`
	// ExtraRegions appends reference-quarter rows for jurisdictions
	// outside the canonical eight, as "Full Name,CODE" pairs.
	ExtraRegions []string `yaml:"extra_regions,omitempty"`
	// LabourRegions present in the labour table. Empty means all eight.
	LabourRegions []string `yaml:"labour_regions,omitempty"`
	// Merge runs the full pipeline instead of the cleaner alone.
	Merge bool `yaml:"merge,omitempty"`

	Expected Expected `yaml:"expected"`
}

// Expected is the outcome a scenario must reach.
type Expected struct {
	// Cleaned is the record count of the cleaned wage artifact.
	Cleaned int `yaml:"cleaned"`
	// NilGrowth lists regions whose cleaned record has no annual growth.
	NilGrowth []string `yaml:"nil_growth,omitempty"`
	// Warnings tallies expected report warnings by kind. Kinds absent
	// here must not occur.
	Warnings map[string]int `yaml:"warnings,omitempty"`
	// MissingRegions lists regions absent from the wage summary.
	MissingRegions []string `yaml:"missing_regions,omitempty"`
	// Merged is the merged row count, when Merge is set.
	Merged int `yaml:"merged,omitempty"`
}

// Load reads and decodes one scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// parseWarningKind validates a scenario's warning kind name.
func parseWarningKind(s string) (pipeline.WarningKind, bool) {
	switch k := pipeline.WarningKind(s); k {
	case pipeline.WarnUnknownRegion,
		pipeline.WarnMissingHistory,
		pipeline.WarnJoinMismatch,
		pipeline.WarnMalformedRow,
		pipeline.WarnMissingValue:
		return k, true
	}
	return "", false
}
