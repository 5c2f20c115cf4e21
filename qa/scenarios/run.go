package scenarios

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ozstats/labourpipe/app"
	"github.com/ozstats/labourpipe/config"
	"github.com/ozstats/labourpipe/core/pipeline"
	"github.com/ozstats/labourpipe/core/report"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

// wageBase holds the unperturbed index levels each scenario starts from.
type wageBase struct {
	name    string
	code    string
	yearAgo float64
	index   float64
}

var baseWage = []wageBase{
	{"New South Wales", "NSW", 145.2, 150.7},
	{"Victoria", "VIC", 144.8, 150.2},
	{"Queensland", "QLD", 143.5, 148.9},
	{"Western Australia", "WA", 148.1, 153.4},
	{"South Australia", "SA", 142.3, 147.6},
	{"Tasmania", "TAS", 141.7, 147.0},
	{"Australian Capital Territory", "ACT", 147.3, 152.6},
	{"Northern Territory", "NT", 146.8, 152.1},
}

var baseLabour = map[string]string{
	"NSW": "New South Wales,NSW,64.4,4.2,66.1,4521000,8166000,2025-Q3",
	"VIC": "Victoria,VIC,64.9,4.5,67.2,3721000,6681000,2025-Q3",
	"QLD": "Queensland,QLD,64.3,4.3,66.9,2874000,5460000,2025-Q3",
	"WA":  "Western Australia,WA,66.8,3.8,68.9,1571000,2786000,2025-Q3",
	"SA":  "South Australia,SA,61.7,4.1,63.4,912000,1820000,2025-Q3",
	"TAS": "Tasmania,TAS,59.8,4.4,61.5,279000,572000,2025-Q3",
	"ACT": "Australian Capital Territory,ACT,68.9,3.4,70.8,257000,456000,2025-Q3",
	"NT":  "Northern Territory,NT,65.1,4.0,67.6,134000,250000,2025-Q3",
}

// RunScenario synthesizes the perturbed extracts, executes the pipeline and
// checks every stated expectation against the run report and the artifacts.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	for kind := range sc.Expected.Warnings {
		if _, ok := parseWarningKind(kind); !ok {
			t.Fatalf("scenario %s: unknown warning kind %q", sc.Name, kind)
		}
	}

	dir := t.TempDir()
	wagePath := filepath.Join(dir, "wage_raw.csv")
	writeFile(t, wagePath, wageCSV(sc))
	labourPath := filepath.Join(dir, "labour.csv")
	writeFile(t, labourPath, labourCSV(sc))

	var cfg config.Config
	cfg.SetDefaults()
	cfg.Artifacts.Dir = dir
	cfg.Cleaner.Source = wagePath
	cfg.Merger.LabourSource = labourPath

	svc, err := app.New(&cfg)
	if err != nil {
		t.Fatalf("scenario %s: service: %v", sc.Name, err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	var rep *report.RunReport
	if sc.Merge {
		rep, err = svc.Run(context.Background())
	} else {
		rep, err = svc.RunClean(context.Background())
	}
	if err != nil {
		t.Fatalf("scenario %s: run: %v", sc.Name, err)
	}

	checkWarnings(t, sc, rep)
	checkCleaned(t, sc, rep, filepath.Join(dir, cfg.Cleaner.Output))
	if sc.Merge {
		if rep.Merged == nil {
			t.Fatalf("scenario %s: no merged summary", sc.Name)
		}
		if rep.Merged.Regions != sc.Expected.Merged {
			t.Errorf("scenario %s: merged %d rows, want %d",
				sc.Name, rep.Merged.Regions, sc.Expected.Merged)
		}
	}
}

func checkWarnings(t *testing.T, sc *Scenario, rep *report.RunReport) {
	t.Helper()
	for kind, want := range sc.Expected.Warnings {
		if got := rep.WarningCounts[pipeline.WarningKind(kind)]; got != want {
			t.Errorf("scenario %s: %d %s warnings, want %d", sc.Name, got, kind, want)
		}
	}
	for kind, got := range rep.WarningCounts {
		if _, declared := sc.Expected.Warnings[string(kind)]; !declared && got > 0 {
			t.Errorf("scenario %s: %d undeclared %s warnings", sc.Name, got, kind)
		}
	}
}

// checkCleaned verifies record count, per-region growth presence and the
// missing-region list against the cleaned artifact and the wage summary.
func checkCleaned(t *testing.T, sc *Scenario, rep *report.RunReport, cleanedPath string) {
	t.Helper()
	table, warns, err := tabular.ReadFile(cleanedPath)
	if err != nil {
		t.Fatalf("scenario %s: read cleaned artifact: %v", sc.Name, err)
	}
	if len(warns) != 0 {
		t.Errorf("scenario %s: cleaned artifact has defects: %v", sc.Name, warns)
	}
	if len(table.Rows) != sc.Expected.Cleaned {
		t.Errorf("scenario %s: cleaned %d records, want %d",
			sc.Name, len(table.Rows), sc.Expected.Cleaned)
	}

	nilGrowth := toSet(sc.Expected.NilGrowth)
	for _, row := range table.Rows {
		code := row.Get("region_code")
		growth := row.Get("annual_wage_growth_rate")
		if nilGrowth[code] && growth != "" {
			t.Errorf("scenario %s: %s has growth %q, want none", sc.Name, code, growth)
		}
		if !nilGrowth[code] && growth == "" {
			t.Errorf("scenario %s: %s lost its growth", sc.Name, code)
		}
	}

	if rep.Wage == nil {
		t.Fatalf("scenario %s: no wage summary", sc.Name)
	}
	var missing []string
	for _, r := range rep.Wage.MissingRegions {
		missing = append(missing, string(r))
	}
	if strings.Join(missing, ",") != strings.Join(sc.Expected.MissingRegions, ",") {
		t.Errorf("scenario %s: missing regions %v, want %v",
			sc.Name, missing, sc.Expected.MissingRegions)
	}
}

// wageCSV renders the wage extract with the scenario's perturbations. Rows
// keep the source ordering: one block per region, prior year first.
func wageCSV(sc *Scenario) string {
	include := toSet(sc.Regions)
	dropYearAgo := toSet(sc.DropYearAgo)
	blank := toSet(sc.BlankIndex)
	offSector := toSet(sc.OffSector)

	var b strings.Builder
	b.WriteString("State_Territory,State_Code,Quarter,Wage_Price_Index,Data_Type\n")
	for _, w := range baseWage {
		if len(include) > 0 && !include[w.code] {
			continue
		}
		if !dropYearAgo[w.code] {
			fmt.Fprintf(&b, "%s,%s,2024-Q3,%.1f,All Sectors\n", w.name, w.code, w.yearAgo)
		}
		index := fmt.Sprintf("%.1f", w.index)
		if blank[w.code] {
			index = "n.a."
		}
		sector := "All Sectors"
		if offSector[w.code] {
			sector = "Private"
		}
		fmt.Fprintf(&b, "%s,%s,2025-Q3,%s,%s\n", w.name, w.code, index, sector)
	}
	for _, extra := range sc.ExtraRegions {
		name, code, _ := strings.Cut(extra, ",")
		fmt.Fprintf(&b, "%s,%s,2025-Q3,140.0,All Sectors\n", name, code)
	}
	return b.String()
}

func labourCSV(sc *Scenario) string {
	include := toSet(sc.LabourRegions)
	var b strings.Builder
	b.WriteString("State,State_Code,Employment_Rate,Unemployment_Rate,Participation_Rate,Labour_Force,Population,Year_Quarter\n")
	for _, w := range baseWage {
		if len(include) > 0 && !include[w.code] {
			continue
		}
		b.WriteString(baseLabour[w.code])
		b.WriteString("\n")
	}
	return b.String()
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func toSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}
