package stats

import (
	"testing"

	"github.com/ozstats/labourpipe/core/model"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})
	if s.Count != 4 {
		t.Fatalf("count = %d, want 4", s.Count)
	}
	if s.Mean != 2.5 || s.Median != 2.5 {
		t.Fatalf("mean/median = %v/%v, want 2.5/2.5", s.Mean, s.Median)
	}
	if s.Std != 1.291 {
		t.Fatalf("std = %v, want 1.291", s.Std)
	}
	if s.Min != 1 || s.Max != 4 {
		t.Fatalf("min/max = %v/%v, want 1/4", s.Min, s.Max)
	}
}

func TestDescribeOddMedian(t *testing.T) {
	if got := Describe([]float64{3, 1, 2}).Median; got != 2 {
		t.Fatalf("median = %v, want 2", got)
	}
}

func TestDescribeDegenerate(t *testing.T) {
	if got := Describe(nil); got != (Summary{}) {
		t.Fatalf("empty input: got %+v, want zero summary", got)
	}
	single := Describe([]float64{5})
	if single.Count != 1 || single.Std != 0 || single.Mean != 5 {
		t.Fatalf("single value: got %+v", single)
	}
}

func TestDescribeLeavesInputUntouched(t *testing.T) {
	in := []float64{4, 1, 3}
	Describe(in)
	if in[0] != 4 || in[1] != 1 || in[2] != 3 {
		t.Fatalf("input reordered: %v", in)
	}
}

func TestForWage(t *testing.T) {
	q := model.MustQuarter("2025-Q3")
	recs := []model.WageRecord{
		{Region: "NSW", Index: 150.7, Growth: model.Float(2.4), Quarter: q},
		{Region: "VIC", Index: 150.2, Growth: model.Float(2.2), Quarter: q},
		{Region: "TAS", Index: 147.0, Quarter: q},
	}

	ws := ForWage(recs)
	if ws.Records != 3 || ws.Quarter != q {
		t.Fatalf("records/quarter = %d/%s", ws.Records, ws.Quarter)
	}
	if ws.Index.Count != 3 || ws.Index.Mean != 149.3 || ws.Index.Median != 150.2 {
		t.Fatalf("index summary = %+v", ws.Index)
	}
	if ws.Growth.Count != 2 || ws.Growth.Mean != 2.3 {
		t.Fatalf("growth summary = %+v", ws.Growth)
	}
	if ws.Lowest.Region != "TAS" || ws.Lowest.Value != 147.0 {
		t.Fatalf("lowest = %+v", ws.Lowest)
	}
	if ws.Highest.Region != "NSW" || ws.Highest.Value != 150.7 {
		t.Fatalf("highest = %+v", ws.Highest)
	}
	wantMissing := []model.Region{"ACT", "NT", "QLD", "SA", "WA"}
	if len(ws.MissingRegions) != len(wantMissing) {
		t.Fatalf("missing regions = %v", ws.MissingRegions)
	}
	for i, r := range wantMissing {
		if ws.MissingRegions[i] != r {
			t.Fatalf("missing regions = %v, want %v", ws.MissingRegions, wantMissing)
		}
	}
}

func TestForWageEmpty(t *testing.T) {
	ws := ForWage(nil)
	if ws.Records != 0 {
		t.Fatalf("records = %d", ws.Records)
	}
	if len(ws.MissingRegions) != len(model.CanonicalRegions) {
		t.Fatalf("missing regions = %v, want all canonical", ws.MissingRegions)
	}
}

func TestForMerged(t *testing.T) {
	ms := ForMerged(mergedSet())

	if ms.Regions != 4 || ms.Quarter.String() != "2025-Q3" {
		t.Fatalf("regions/quarter = %d/%s", ms.Regions, ms.Quarter)
	}
	if ms.Employment.Mean != 65.1 {
		t.Fatalf("employment mean = %v, want 65.1", ms.Employment.Mean)
	}
	if ms.Growth.Count != 3 || ms.Growth.Mean != 2.4 {
		t.Fatalf("growth summary = %+v", ms.Growth)
	}
	if ms.TotalVacancies != 240524 {
		t.Fatalf("total vacancies = %d, want 240524", ms.TotalVacancies)
	}
	if ms.MeanVacancyRate != 26.7 {
		t.Fatalf("mean vacancy rate = %v, want 26.7", ms.MeanVacancyRate)
	}
	// One region lacks growth: growth cell and growth category cell are
	// empty, 58 of 60 cells filled.
	if ms.Completeness != 96.6667 {
		t.Fatalf("completeness = %v, want 96.6667", ms.Completeness)
	}
	if len(ms.MissingRegions) != 4 || ms.MissingRegions[0] != "NT" || ms.MissingRegions[3] != "WA" {
		t.Fatalf("missing regions = %v", ms.MissingRegions)
	}
}

func TestForMergedTopPerformers(t *testing.T) {
	ms := ForMerged(mergedSet())

	if len(ms.TopPerformers) != 3 {
		t.Fatalf("top performers = %d entries, want 3", len(ms.TopPerformers))
	}
	order := []model.Region{"ACT", "NSW", "VIC"}
	for i, want := range order {
		if ms.TopPerformers[i].Region != want {
			t.Fatalf("rank %d = %s, want %s", i+1, ms.TopPerformers[i].Region, want)
		}
	}
	if ms.TopPerformers[0].Score != 100.0 {
		t.Fatalf("top score = %v, want 100.0", ms.TopPerformers[0].Score)
	}
	if g := ms.TopPerformers[1].Growth; g == nil || *g != 2.4 {
		t.Fatalf("NSW growth = %v, want 2.4", g)
	}
}

func TestForMergedCategoryCounts(t *testing.T) {
	ms := ForMerged(mergedSet())

	if ms.GrowthCategories["High Growth"] != 2 || ms.GrowthCategories["Moderate Growth"] != 1 {
		t.Fatalf("growth categories = %v", ms.GrowthCategories)
	}
	if len(ms.GrowthCategories) != 2 {
		t.Fatalf("growth categories include empties: %v", ms.GrowthCategories)
	}
	if ms.EmploymentCategories["Above Average"] != 2 || ms.EmploymentCategories["Average"] != 1 || ms.EmploymentCategories["Below Average"] != 1 {
		t.Fatalf("employment categories = %v", ms.EmploymentCategories)
	}
}

func mergedSet() []model.MergedRecord {
	q := model.MustQuarter("2025-Q3")
	return []model.MergedRecord{
		{Region: "ACT", EmploymentRate: 71.2, WageIndex: 152.6, WageGrowth: model.Float(2.6), EmploymentToWageRatio: 46.658, WageGrowthCategory: "High Growth", EmploymentCategory: "Above Average", PerformanceScore: 100.0, VacancyRate: 31.7, Vacancies: 8139, Quarter: q},
		{Region: "NSW", EmploymentRate: 64.4, WageIndex: 150.7, WageGrowth: model.Float(2.4), EmploymentToWageRatio: 42.734, WageGrowthCategory: "High Growth", EmploymentCategory: "Average", PerformanceScore: 60.3, VacancyRate: 28.5, Vacancies: 128849, Quarter: q},
		{Region: "TAS", EmploymentRate: 58.1, WageIndex: 147.0, EmploymentToWageRatio: 39.524, EmploymentCategory: "Below Average", PerformanceScore: 0.0, VacancyRate: 19.8, Vacancies: 5536, Quarter: q},
		{Region: "VIC", EmploymentRate: 66.7, WageIndex: 150.2, WageGrowth: model.Float(2.2), EmploymentToWageRatio: 44.407, WageGrowthCategory: "Moderate Growth", EmploymentCategory: "Above Average", PerformanceScore: 55.0, VacancyRate: 26.8, Vacancies: 98000, Quarter: q},
	}
}
