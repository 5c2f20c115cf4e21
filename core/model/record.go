package model

import "fmt"

// WageRecord is one row of the cleaned wage table: a single region at the
// reference quarter, sector-aggregated, with the derived annual growth rate.
// Growth is nil when the prior-year quarter was missing from the source.
type WageRecord struct {
	Region  Region   `json:"region_code"`
	Index   float64  `json:"wage_price_index"`
	Growth  *float64 `json:"annual_wage_growth_rate"`
	Quarter Quarter  `json:"reference_quarter"`
}

// Validate checks the record invariants. The wage price index is
// base-year-normalized (2017 = 100.0) and must be positive.
func (w WageRecord) Validate() error {
	if !w.Region.Valid() {
		return fmt.Errorf("region %q is not canonical", w.Region)
	}
	if w.Index <= 0 {
		return fmt.Errorf("wage price index must be positive, got %v", w.Index)
	}
	return nil
}

// LabourRecord is one row of the labour force table, pre-aggregated upstream
// to a single region and quarter.
type LabourRecord struct {
	Region            Region  `json:"region_code"`
	EmploymentRate    float64 `json:"employment_rate"`
	UnemploymentRate  float64 `json:"unemployment_rate"`
	ParticipationRate float64 `json:"participation_rate"`
	LabourForce       int     `json:"labour_force"`
	Population        int     `json:"population"`
	Quarter           Quarter `json:"reference_quarter"`
}

// Validate checks rate ranges and counts. Employment and unemployment rates
// use different denominators, so their sum is deliberately not constrained.
func (l LabourRecord) Validate() error {
	if !l.Region.Valid() {
		return fmt.Errorf("region %q is not canonical", l.Region)
	}
	for _, r := range []struct {
		name string
		v    float64
	}{
		{"employment_rate", l.EmploymentRate},
		{"unemployment_rate", l.UnemploymentRate},
		{"participation_rate", l.ParticipationRate},
	} {
		if r.v < 0 || r.v > 100 {
			return fmt.Errorf("%s %v outside [0,100]", r.name, r.v)
		}
	}
	if l.LabourForce <= 0 {
		return fmt.Errorf("labour force must be positive, got %d", l.LabourForce)
	}
	if l.Population <= 0 {
		return fmt.Errorf("population must be positive, got %d", l.Population)
	}
	return nil
}

// MergedRecord is one row of the merged analysis table: the union of the
// labour and wage attributes for a region plus the derived chart metrics.
type MergedRecord struct {
	Region            Region   `json:"region_code"`
	EmploymentRate    float64  `json:"employment_rate"`
	UnemploymentRate  float64  `json:"unemployment_rate"`
	ParticipationRate float64  `json:"participation_rate"`
	LabourForce       int      `json:"labour_force"`
	Population        int      `json:"population"`
	WageIndex         float64  `json:"wage_price_index"`
	WageGrowth        *float64 `json:"annual_wage_growth_rate"`

	EmploymentToWageRatio float64 `json:"employment_to_wage_ratio"`
	WageGrowthCategory    string  `json:"wage_growth_category"`
	EmploymentCategory    string  `json:"employment_category"`
	PerformanceScore      float64 `json:"economic_performance_score"`
	VacancyRate           float64 `json:"job_vacancy_rate"`
	Vacancies             int     `json:"job_vacancies"`

	Quarter Quarter `json:"reference_quarter"`
}

// GrowthValue returns the growth rate and whether it is present.
func (m MergedRecord) GrowthValue() (float64, bool) {
	if m.WageGrowth == nil {
		return 0, false
	}
	return *m.WageGrowth, true
}

// Float returns a pointer to v, for populating nullable fields.
func Float(v float64) *float64 { return &v }
