package test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ozstats/labourpipe/app"
	"github.com/ozstats/labourpipe/config"
	"github.com/ozstats/labourpipe/core/report"
	"github.com/ozstats/labourpipe/pkg/export"
)

const wageExtract = `State_Territory,State_Code,Quarter,Wage_Price_Index,Data_Type
New South Wales,NSW,2024-Q3,145.2,All Sectors
Victoria,VIC,2024-Q3,144.8,All Sectors
Queensland,QLD,2024-Q3,143.5,All Sectors
Western Australia,WA,2024-Q3,148.1,All Sectors
South Australia,SA,2024-Q3,142.3,All Sectors
Tasmania,TAS,2024-Q3,141.7,All Sectors
Australian Capital Territory,ACT,2024-Q3,147.3,All Sectors
Northern Territory,NT,2024-Q3,146.8,All Sectors
New South Wales,NSW,2025-Q3,150.7,All Sectors
Victoria,VIC,2025-Q3,150.2,All Sectors
Queensland,QLD,2025-Q3,148.9,All Sectors
Western Australia,WA,2025-Q3,153.4,All Sectors
South Australia,SA,2025-Q3,147.6,All Sectors
Tasmania,TAS,2025-Q3,147.0,All Sectors
Australian Capital Territory,ACT,2025-Q3,152.6,All Sectors
Northern Territory,NT,2025-Q3,152.1,All Sectors
`

const labourExtract = `State,State_Code,Employment_Rate,Unemployment_Rate,Participation_Rate,Labour_Force,Population,Year_Quarter
New South Wales,NSW,64.4,4.2,66.1,4521000,8166000,2025-Q3
Victoria,VIC,64.9,4.5,67.2,3721000,6681000,2025-Q3
Queensland,QLD,64.3,4.3,66.9,2874000,5460000,2025-Q3
Western Australia,WA,66.8,3.8,68.9,1571000,2786000,2025-Q3
South Australia,SA,61.7,4.1,63.4,912000,1820000,2025-Q3
Tasmania,TAS,59.8,4.4,61.5,279000,572000,2025-Q3
Australian Capital Territory,ACT,68.9,3.4,70.8,257000,456000,2025-Q3
Northern Territory,NT,65.1,4.0,67.6,134000,250000,2025-Q3
`

// fixtureConfig writes the source extracts into a fresh directory and
// anchors every artifact there.
func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	wagePath := filepath.Join(dir, "wage_raw.csv")
	if err := os.WriteFile(wagePath, []byte(wageExtract), 0o644); err != nil {
		t.Fatalf("write wage extract: %v", err)
	}
	labourPath := filepath.Join(dir, "labour.csv")
	if err := os.WriteFile(labourPath, []byte(labourExtract), 0o644); err != nil {
		t.Fatalf("write labour extract: %v", err)
	}
	var cfg config.Config
	cfg.SetDefaults()
	cfg.Artifacts.Dir = dir
	cfg.Cleaner.Source = wagePath
	cfg.Merger.LabourSource = labourPath
	return &cfg
}

// generatedConfig anchors everything in a fresh directory and points the
// pipeline at the generator outputs.
func generatedConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	var cfg config.Config
	cfg.SetDefaults()
	cfg.Artifacts.Dir = dir
	cfg.Generator.WageOutput = filepath.Join(dir, "wage_raw.csv")
	cfg.Generator.LabourOutput = filepath.Join(dir, "labour.csv")
	cfg.Cleaner.Source = cfg.Generator.WageOutput
	cfg.Merger.LabourSource = cfg.Generator.LabourOutput
	return &cfg
}

func newService(t *testing.T, cfg *config.Config) *app.Service {
	t.Helper()
	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return svc
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestPipelineEndToEnd(t *testing.T) {
	scenarios := []struct {
		name     string
		scenario func(t *testing.T)
	}{
		{"Fixture_Artifacts", testFixtureArtifacts},
		{"Generated_Sources", testGeneratedSources},
		{"Artifact_Reuse", testArtifactReuse},
		{"Backfill_Chain", testBackfillChain},
		{"Determinism", testDeterminism},
	}
	for _, sc := range scenarios {
		t.Run(sc.name, sc.scenario)
	}
}

// testFixtureArtifacts runs the full pipeline over hand-written extracts and
// checks the artifacts line by line.
func testFixtureArtifacts(t *testing.T) {
	cfg := fixtureConfig(t)
	svc := newService(t, cfg)

	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Status != report.StatusSucceeded {
		t.Fatalf("status = %s", rep.Status)
	}

	cleaned := readLines(t, filepath.Join(cfg.Artifacts.Dir, cfg.Cleaner.Output))
	if len(cleaned) != 9 {
		t.Fatalf("cleaned artifact has %d lines, want 9", len(cleaned))
	}
	if cleaned[0] != strings.Join(export.WageHeader, ",") {
		t.Errorf("cleaned header = %s", cleaned[0])
	}
	if cleaned[2] != "NSW,150.7,3.8,2025-Q3" {
		t.Errorf("cleaned NSW line = %s", cleaned[2])
	}

	merged := readLines(t, filepath.Join(cfg.Artifacts.Dir, cfg.Merger.Output))
	if len(merged) != 9 {
		t.Fatalf("merged artifact has %d lines, want 9", len(merged))
	}
	if merged[0] != strings.Join(export.MergedHeader, ",") {
		t.Errorf("merged header = %s", merged[0])
	}
	// All fixture growth rates exceed the category bins, so the category
	// column is empty. Employment and vacancy figures still derive.
	want := "NSW,64.4,4.2,66.1,4521000,8166000,150.7,3.8,42.734,,Average,70.3,28.5,128849,2025-Q3"
	if merged[2] != want {
		t.Errorf("merged NSW line:\n got %s\nwant %s", merged[2], want)
	}

	if _, err := os.Stat(filepath.Join(cfg.Artifacts.Dir, "run_report.json")); err != nil {
		t.Errorf("run report missing: %v", err)
	}
}

// testGeneratedSources chains the generator into the pipeline. Values carry
// seeded noise, so the checks are structural.
func testGeneratedSources(t *testing.T) {
	cfg := generatedConfig(t)
	svc := newService(t, cfg)

	if err := svc.Generate(); err != nil {
		t.Fatalf("generate: %v", err)
	}
	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", rep.Warnings)
	}

	merged := readLines(t, filepath.Join(cfg.Artifacts.Dir, cfg.Merger.Output))
	if len(merged) != 9 {
		t.Fatalf("merged artifact has %d lines, want 9", len(merged))
	}
	wantCodes := []string{"ACT", "NSW", "NT", "QLD", "SA", "TAS", "VIC", "WA"}
	for i, line := range merged[1:] {
		if !strings.HasPrefix(line, wantCodes[i]+",") {
			t.Errorf("row %d = %s, want region %s", i, line, wantCodes[i])
		}
		if !strings.HasSuffix(line, ",2025-Q3") {
			t.Errorf("row %d quarter: %s", i, line)
		}
	}
}

// testArtifactReuse verifies a merge run picks up the cleaned artifact a
// previous clean run left behind instead of re-reading the raw source.
func testArtifactReuse(t *testing.T) {
	cfg := fixtureConfig(t)

	if _, err := newService(t, cfg).RunClean(context.Background()); err != nil {
		t.Fatalf("clean: %v", err)
	}
	// Corrupt the raw source. A merge that reuses the artifact never
	// notices; one that re-cleans would fail loudly.
	if err := os.WriteFile(cfg.Cleaner.Source, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep, err := newService(t, cfg).RunMerge(context.Background())
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if rep.Merged == nil || rep.Merged.Regions != 8 {
		t.Fatalf("merged summary = %+v", rep.Merged)
	}
}

// testBackfillChain expands the merged artifact of a finished run into an
// eight-quarter history.
func testBackfillChain(t *testing.T) {
	cfg := fixtureConfig(t)
	svc := newService(t, cfg)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	res, err := svc.Backfill()
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if res.Records != 64 {
		t.Errorf("backfill records = %d, want 64", res.Records)
	}

	history := readLines(t, res.MergedOutput)
	if len(history) != 65 {
		t.Fatalf("history has %d lines, want 65", len(history))
	}
	if !strings.HasSuffix(history[1], ",2023-Q4") {
		t.Errorf("history starts at %s", history[1])
	}
	// The source quarter closes the series with its rows kept verbatim,
	// except growth gaining a decimal.
	if !strings.HasSuffix(history[64], ",2025-Q3") {
		t.Errorf("history ends at %s", history[64])
	}
	if !strings.Contains(history[58], "NSW,64.4,4.2,66.1,4521000,8166000,150.7,3.80,") {
		t.Errorf("source-quarter NSW row altered: %s", history[58])
	}
}

// testDeterminism runs the same seeded configuration twice and expects
// byte-identical artifacts.
func testDeterminism(t *testing.T) {
	read := func(t *testing.T) (string, string) {
		cfg := generatedConfig(t)
		svc := newService(t, cfg)
		if err := svc.Generate(); err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, err := svc.Run(context.Background()); err != nil {
			t.Fatalf("run: %v", err)
		}
		cleaned, err := os.ReadFile(filepath.Join(cfg.Artifacts.Dir, cfg.Cleaner.Output))
		if err != nil {
			t.Fatal(err)
		}
		merged, err := os.ReadFile(filepath.Join(cfg.Artifacts.Dir, cfg.Merger.Output))
		if err != nil {
			t.Fatal(err)
		}
		return string(cleaned), string(merged)
	}

	cleaned1, merged1 := read(t)
	cleaned2, merged2 := read(t)
	if cleaned1 != cleaned2 {
		t.Error("cleaned artifacts differ between identically seeded runs")
	}
	if merged1 != merged2 {
		t.Error("merged artifacts differ between identically seeded runs")
	}
}
