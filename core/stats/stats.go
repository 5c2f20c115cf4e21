// Package stats computes descriptive statistics over cleaned and merged
// labour tables for run reports and log summaries.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/pkg/export"
)

// Summary describes one numeric column.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Extreme pairs a column extreme with the region holding it.
type Extreme struct {
	Region model.Region `json:"region"`
	Value  float64      `json:"value"`
}

// Performer is one entry of the performance-score ranking.
type Performer struct {
	Region         model.Region `json:"region"`
	Score          float64      `json:"score"`
	EmploymentRate float64      `json:"employment_rate"`
	Growth         *float64     `json:"annual_wage_growth_rate"`
}

// WageStats summarizes a cleaned wage table.
type WageStats struct {
	Records int           `json:"records"`
	Quarter model.Quarter `json:"quarter"`
	Index   Summary       `json:"wage_price_index"`
	Growth  Summary       `json:"annual_growth_rate"`
	Lowest  Extreme       `json:"lowest_index"`
	Highest Extreme       `json:"highest_index"`
	// MissingRegions lists canonical regions absent from the table. Charts
	// keyed on the region set render gaps for these.
	MissingRegions []model.Region `json:"missing_regions,omitempty"`
}

// MergedStats summarizes a merged analysis table.
type MergedStats struct {
	Regions              int            `json:"regions"`
	Quarter              model.Quarter  `json:"quarter"`
	MissingRegions       []model.Region `json:"missing_regions,omitempty"`
	Completeness         float64        `json:"data_completeness_pct"`
	Employment           Summary        `json:"employment_rate"`
	Index                Summary        `json:"wage_price_index"`
	Growth               Summary        `json:"annual_wage_growth_rate"`
	Ratio                Summary        `json:"employment_to_wage_ratio"`
	Score                Summary        `json:"economic_performance_score"`
	TotalVacancies       int            `json:"total_job_vacancies"`
	MeanVacancyRate      float64        `json:"mean_vacancy_rate"`
	TopPerformers        []Performer    `json:"top_performers"`
	GrowthCategories     map[string]int `json:"wage_growth_categories"`
	EmploymentCategories map[string]int `json:"employment_categories"`
}

// Describe computes count, mean, median, sample standard deviation, min and
// max of values. The slice is not modified. An empty slice yields a zero
// Summary; a single value has zero deviation.
func Describe(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count:  n,
		Mean:   round4(stat.Mean(sorted, nil)),
		Median: round4(stat.Quantile(0.5, stat.LinInterp, sorted, nil)),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
	}
	if n > 1 {
		s.Std = round4(stat.StdDev(sorted, nil))
	}
	return s
}

// ForWage summarizes cleaned wage records. Growth statistics cover only
// regions that have a year-ago observation.
func ForWage(recs []model.WageRecord) WageStats {
	ws := WageStats{Records: len(recs)}
	if len(recs) == 0 {
		ws.MissingRegions = missingRegions(nil)
		return ws
	}
	ws.Quarter = recs[0].Quarter

	indices := make([]float64, 0, len(recs))
	growth := make([]float64, 0, len(recs))
	present := make(map[model.Region]bool, len(recs))
	lowest, highest := recs[0], recs[0]
	for _, r := range recs {
		present[r.Region] = true
		indices = append(indices, r.Index)
		if r.Growth != nil {
			growth = append(growth, *r.Growth)
		}
		if r.Index < lowest.Index {
			lowest = r
		}
		if r.Index > highest.Index {
			highest = r
		}
	}
	ws.Index = Describe(indices)
	ws.Growth = Describe(growth)
	ws.Lowest = Extreme{Region: lowest.Region, Value: lowest.Index}
	ws.Highest = Extreme{Region: highest.Region, Value: highest.Index}
	ws.MissingRegions = missingRegions(present)
	return ws
}

// ForMerged summarizes merged records: per-column statistics, vacancy
// totals, cell completeness against the merged schema, the top three
// regions by performance score and category distributions.
func ForMerged(recs []model.MergedRecord) MergedStats {
	ms := MergedStats{
		Regions:              len(recs),
		GrowthCategories:     map[string]int{},
		EmploymentCategories: map[string]int{},
	}
	if len(recs) == 0 {
		ms.MissingRegions = missingRegions(nil)
		return ms
	}
	ms.Quarter = recs[0].Quarter

	var (
		employment, indices, growth, ratios, scores, rates []float64
		vacancies, nulls                                   int
	)
	present := make(map[model.Region]bool, len(recs))
	for _, r := range recs {
		present[r.Region] = true
		employment = append(employment, r.EmploymentRate)
		indices = append(indices, r.WageIndex)
		ratios = append(ratios, r.EmploymentToWageRatio)
		scores = append(scores, r.PerformanceScore)
		rates = append(rates, r.VacancyRate)
		vacancies += r.Vacancies
		if g, ok := r.GrowthValue(); ok {
			growth = append(growth, g)
		} else {
			nulls++
		}
		if r.WageGrowthCategory == "" {
			nulls++
		} else {
			ms.GrowthCategories[r.WageGrowthCategory]++
		}
		if r.EmploymentCategory == "" {
			nulls++
		} else {
			ms.EmploymentCategories[r.EmploymentCategory]++
		}
	}
	ms.Employment = Describe(employment)
	ms.Index = Describe(indices)
	ms.Growth = Describe(growth)
	ms.Ratio = Describe(ratios)
	ms.Score = Describe(scores)
	ms.TotalVacancies = vacancies
	ms.MeanVacancyRate = round4(stat.Mean(rates, nil))

	cells := len(recs) * len(export.MergedHeader)
	ms.Completeness = round4(float64(cells-nulls) / float64(cells) * 100)

	ms.TopPerformers = topPerformers(recs, 3)
	ms.MissingRegions = missingRegions(present)
	return ms
}

// missingRegions lists canonical regions absent from present, in canonical
// order. A nil map means nothing is present.
func missingRegions(present map[model.Region]bool) []model.Region {
	var missing []model.Region
	for _, r := range model.CanonicalRegions {
		if !present[r] {
			missing = append(missing, r)
		}
	}
	return missing
}

func topPerformers(recs []model.MergedRecord, n int) []Performer {
	ranked := make([]model.MergedRecord, len(recs))
	copy(ranked, recs)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PerformanceScore != ranked[j].PerformanceScore {
			return ranked[i].PerformanceScore > ranked[j].PerformanceScore
		}
		return ranked[i].Region < ranked[j].Region
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]Performer, 0, n)
	for _, r := range ranked[:n] {
		top = append(top, Performer{
			Region:         r.Region,
			Score:          r.PerformanceScore,
			EmploymentRate: r.EmploymentRate,
			Growth:         r.WageGrowth,
		})
	}
	return top
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
