package merger

import (
	"fmt"
	"math"

	"github.com/ozstats/labourpipe/core/pipeline"
)

// derive fills the chart metrics on every joined record: the employment to
// wage ratio, the category bins, the composite performance score and the
// vacancy estimates.
func (m *Merger) derive(res *Result) {
	if len(res.Records) == 0 {
		return
	}

	empMin, empMax := math.Inf(1), math.Inf(-1)
	gMin, gMax := math.Inf(1), math.Inf(-1)
	for _, r := range res.Records {
		empMin = math.Min(empMin, r.EmploymentRate)
		empMax = math.Max(empMax, r.EmploymentRate)
		if g, ok := r.GrowthValue(); ok {
			gMin = math.Min(gMin, g)
			gMax = math.Max(gMax, g)
		}
	}

	for i := range res.Records {
		r := &res.Records[i]
		r.EmploymentToWageRatio = round(r.EmploymentRate/r.WageIndex*100, 3)
		r.WageGrowthCategory = growthCategory(r.WageGrowth)
		r.EmploymentCategory = employmentCategory(r.EmploymentRate)

		// Composite score: weighted min-max normalization, scaled 0-100.
		// Regions without growth score on the employment term alone.
		score := 0.6 * normalize(r.EmploymentRate, empMin, empMax)
		if g, ok := r.GrowthValue(); ok {
			score += 0.4 * normalize(g, gMin, gMax)
		} else {
			res.warn(pipeline.Warning{
				Kind:   pipeline.WarnMissingValue,
				Region: r.Region,
				Detail: fmt.Sprintf("region %s scored without growth term, no growth rate available", r.Region),
			})
		}
		r.PerformanceScore = round(score, 1)

		r.VacancyRate = m.cfg.VacancyRate(r.Region)
		r.Vacancies = int(math.Round(float64(r.LabourForce) * r.VacancyRate / 1000))
	}
}

// normalize maps v into [0,100] over the observed range. A degenerate
// range maps to zero.
func normalize(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return (v - min) / (max - min) * 100
}

// growthCategory bins the annual growth rate. Values outside the bins, like
// the nil growth of a region with no history, stay uncategorized.
func growthCategory(g *float64) string {
	if g == nil {
		return ""
	}
	switch v := *g; {
	case v >= 0 && v <= 2.0:
		return "Low Growth"
	case v > 2.0 && v <= 2.3:
		return "Moderate Growth"
	case v > 2.3 && v <= 3.0:
		return "High Growth"
	}
	return ""
}

// employmentCategory bins the employment rate.
func employmentCategory(rate float64) string {
	switch {
	case rate >= 0 && rate <= 60:
		return "Below Average"
	case rate > 60 && rate <= 65:
		return "Average"
	case rate > 65 && rate <= 100:
		return "Above Average"
	}
	return ""
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
