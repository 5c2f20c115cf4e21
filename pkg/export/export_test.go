package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ozstats/labourpipe/core/model"
)

func TestWriteWageCSV(t *testing.T) {
	q := model.Quarter{Year: 2025, Q: 3}
	recs := []model.WageRecord{
		{Region: model.ACT, Index: 152.3, Growth: model.Float(3.4), Quarter: q},
		{Region: model.NT, Index: 151.9, Quarter: q},
	}
	var buf bytes.Buffer
	if err := WriteWageCSV(&buf, recs); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "region_code,wage_price_index,annual_wage_growth_rate,reference_quarter\n" +
		"ACT,152.3,3.4,2025-Q3\n" +
		"NT,151.9,,2025-Q3\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteMergedCSV(t *testing.T) {
	rec := model.MergedRecord{
		Region:                model.NSW,
		EmploymentRate:        64.4,
		UnemploymentRate:      4.2,
		ParticipationRate:     66.1,
		LabourForce:           4521000,
		Population:            8166000,
		WageIndex:             150.7,
		WageGrowth:            model.Float(3.8),
		EmploymentToWageRatio: 42.734,
		WageGrowthCategory:    "High Growth",
		EmploymentCategory:    "Average",
		PerformanceScore:      71.2,
		VacancyRate:           28.5,
		Vacancies:             128849,
		Quarter:               model.Quarter{Year: 2025, Q: 3},
	}
	var buf bytes.Buffer
	if err := WriteMergedCSV(&buf, []model.MergedRecord{rec}); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0] != strings.Join(MergedHeader, ",") {
		t.Errorf("header = %s", lines[0])
	}
	want := "NSW,64.4,4.2,66.1,4521000,8166000,150.7,3.8,42.734,High Growth,Average,71.2,28.5,128849,2025-Q3"
	if lines[1] != want {
		t.Errorf("row:\n%s\nwant:\n%s", lines[1], want)
	}
}

func TestWriteMergedJSON(t *testing.T) {
	recs := []model.MergedRecord{
		{Region: model.TAS, WageIndex: 147.8, Quarter: model.Quarter{Year: 2025, Q: 3}},
	}
	var buf bytes.Buffer
	if err := WriteMergedJSON(&buf, recs); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded[0]["region_code"] != "TAS" {
		t.Errorf("region_code = %v", decoded[0]["region_code"])
	}
	if decoded[0]["reference_quarter"] != "2025-Q3" {
		t.Errorf("reference_quarter = %v", decoded[0]["reference_quarter"])
	}
	if decoded[0]["annual_wage_growth_rate"] != nil {
		t.Errorf("null growth should encode as null, got %v", decoded[0]["annual_wage_growth_rate"])
	}
}
