package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ozstats/labourpipe/core/model"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `cleaner:
  source: "raw/wpi.csv"
  target_quarter: "2025-Q3"
  sector: "All Sectors"
merger:
  labour_source: "raw/labour.csv"
  vacancy_rates:
    NSW: 30.0
artifacts:
  dir: "out"
  sinks:
    - type: "json"
      conf:
        path: "merged.json"
metrics:
  recorders:
    - type: "nop"
generator:
  seed: 7
  quarters: 7
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"cleaner.source", cfg.Cleaner.Source, "raw/wpi.csv"},
		{"cleaner.target", cfg.Cleaner.Target(), model.Quarter{Year: 2025, Q: 3}},
		{"cleaner.sector", cfg.Cleaner.Sector, "All Sectors"},
		{"cleaner.output default", cfg.Cleaner.Output, "wage_data_cleaned.csv"},
		{"cleaner.columns default", cfg.Cleaner.Columns["index"], "Wage_Price_Index"},
		{"merger.labour_source", cfg.Merger.LabourSource, "raw/labour.csv"},
		{"merger.vacancy override", cfg.Merger.VacancyRate(model.NSW), 30.0},
		{"merger.vacancy default", cfg.Merger.VacancyRate(model.WA), 32.1},
		{"artifacts.dir", cfg.Artifacts.Dir, "out"},
		{"artifacts.sink", len(cfg.Artifacts.Sinks) == 1 && cfg.Artifacts.Sinks[0].Type == "json", true},
		{"metrics.recorder", len(cfg.Metrics.Recorders) == 1 && cfg.Metrics.Recorders[0].Type == "nop", true},
		{"generator.seed", cfg.Generator.Seed, int64(7)},
		{"backfill.quarters default", cfg.Backfill.Quarters, 8},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("artifacts:\n  dir: \"out\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LP_CLEANER__TARGET_QUARTER", "2024-Q4")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if got := cfg.Cleaner.Target(); got != (model.Quarter{Year: 2024, Q: 4}) {
		t.Errorf("env override not applied: %v", got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"bad quarter":      "cleaner:\n  target_quarter: \"2025-Q5\"\n",
		"bad column key":   "cleaner:\n  columns:\n    wages: \"Foo\"\n",
		"unknown vacancy":  "merger:\n  vacancy_rates:\n    NZ: 10\n",
		"negative vacancy": "merger:\n  vacancy_rates:\n    NSW: -1\n",
		"sink sans type":   "artifacts:\n  sinks:\n    - conf:\n        path: \"x\"\n",
	}
	for name, data := range cases {
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Artifacts.Resolve("merged.csv") != filepath.Join("data", "merged.csv") {
		t.Errorf("resolve = %s", cfg.Artifacts.Resolve("merged.csv"))
	}
	if cfg.Artifacts.Resolve("/abs/merged.csv") != "/abs/merged.csv" {
		t.Errorf("absolute path should pass through")
	}
}
