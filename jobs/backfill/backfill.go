// Package backfill expands the single-quarter merged table into a seeded
// synthetic history so the dashboard's time-series charts have something to
// draw before enough real quarters accumulate.
package backfill

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ozstats/labourpipe/config"
	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/core/pipeline"
	"github.com/ozstats/labourpipe/infra/logger"
	"github.com/ozstats/labourpipe/pkg/export"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

// Job expands a merged table backwards in time.
type Job struct {
	cfg   config.BackfillConfig
	log   logger.Logger
	noise distuv.Normal
}

// New returns a Job whose noise stream is reproducible for cfg.Seed.
func New(cfg config.BackfillConfig, log logger.Logger) *Job {
	return &Job{
		cfg: cfg,
		log: log,
		noise: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)),
		},
	}
}

// Result summarises one expansion run.
type Result struct {
	Source       model.Quarter
	Quarters     []model.Quarter
	Records      int
	MergedOutput string
	WageOutput   string
}

// Run loads cfg.Source, synthesises the historical quarters and writes the
// expanded merged table plus its wage subset atomically. The source quarter
// is always the last of the generated range and is carried over verbatim.
func (j *Job) Run() (*Result, error) {
	src, quarter, err := j.load()
	if err != nil {
		return nil, err
	}

	first := quarter.AddQuarters(-(j.cfg.Quarters - 1))
	res := &Result{Source: quarter, MergedOutput: j.cfg.MergedOutput, WageOutput: j.cfg.WageOutput}

	var merged []model.MergedRecord
	for qi := 0; qi < j.cfg.Quarters; qi++ {
		at := first.AddQuarters(qi)
		res.Quarters = append(res.Quarters, at)
		for _, rec := range src {
			merged = append(merged, j.vary(rec, at, qi))
		}
	}
	res.Records = len(merged)

	if err := tabular.WriteFileAtomic(j.cfg.MergedOutput, func(w io.Writer) error {
		return export.WriteHistoricalMergedCSV(w, merged)
	}); err != nil {
		return nil, fmt.Errorf("writing expanded merged table: %w", err)
	}

	wage := make([]model.WageRecord, 0, len(merged))
	for _, r := range merged {
		wage = append(wage, model.WageRecord{
			Region:  r.Region,
			Index:   r.WageIndex,
			Growth:  r.WageGrowth,
			Quarter: r.Quarter,
		})
	}
	if err := tabular.WriteFileAtomic(j.cfg.WageOutput, func(w io.Writer) error {
		return export.WriteHistoricalWageCSV(w, wage)
	}); err != nil {
		return nil, fmt.Errorf("writing expanded wage table: %w", err)
	}

	j.log.Infof("expanded %d regions into %d records across %d quarters (%s..%s)",
		len(src), res.Records, j.cfg.Quarters, first, quarter)
	return res, nil
}

// vary synthesises the row for one historical quarter. qi counts from the
// oldest quarter; the last one is the source quarter and stays untouched.
// Derived ratios and categories are not recomputed for synthetic history.
func (j *Job) vary(rec model.MergedRecord, at model.Quarter, qi int) model.MergedRecord {
	out := rec
	out.Quarter = at
	last := j.cfg.Quarters - 1
	if qi == last {
		return out
	}
	back := float64(last-qi) / float64(last)

	seasonal := 0.2 * math.Sin(float64(qi)*math.Pi/4)
	trend := -0.3 * back
	unemployment := rec.UnemploymentRate + seasonal + trend + 0.1*j.noise.Rand()
	out.UnemploymentRate = round(clamp(unemployment, 1.5, 7.0), 1)

	// The index level rises toward the present.
	out.WageIndex = round(rec.WageIndex-5*back+j.noise.Rand(), 1)
	if g, ok := rec.GrowthValue(); ok {
		out.WageGrowth = model.Float(round(g-0.1*float64(last-qi)+0.1*j.noise.Rand(), 2))
	}
	return out
}

// load parses the source merged table and verifies it is a single-quarter
// snapshot with at most one row per region. The source is this pipeline's
// own artifact, so any unparsable row aborts the job.
func (j *Job) load() ([]model.MergedRecord, model.Quarter, error) {
	table, _, err := tabular.ReadFile(j.cfg.Source)
	if err != nil {
		return nil, model.Quarter{}, fmt.Errorf("loading merged source: %w", err)
	}
	for _, col := range export.MergedHeader {
		if !table.HasColumn(col) {
			return nil, model.Quarter{}, fmt.Errorf("%s is not a merged table: missing column %s", j.cfg.Source, col)
		}
	}

	var (
		recs    []model.MergedRecord
		quarter model.Quarter
		seen    = map[model.Region]int{}
	)
	for _, row := range table.Rows {
		rec, err := parseRow(row)
		if err != nil {
			return nil, model.Quarter{}, err
		}
		if line, dup := seen[rec.Region]; dup {
			return nil, model.Quarter{}, &pipeline.DuplicateRegionError{
				Region:  rec.Region,
				Quarter: rec.Quarter,
				Rows:    [2]int{line, row.Line},
			}
		}
		seen[rec.Region] = row.Line
		if quarter.IsZero() {
			quarter = rec.Quarter
		} else if rec.Quarter != quarter {
			return nil, model.Quarter{}, &pipeline.TemporalMisalignmentError{
				Table: "merged",
				Want:  quarter,
				Got:   rec.Quarter,
			}
		}
		recs = append(recs, rec)
	}
	return recs, quarter, nil
}

func parseRow(row tabular.Row) (model.MergedRecord, error) {
	var rec model.MergedRecord
	region, ok := model.ParseRegion(row.Get("region_code"))
	if !ok {
		return rec, fmt.Errorf("row %d: unknown region %q", row.Line, row.Get("region_code"))
	}
	rec.Region = region

	quarter, err := model.ParseQuarter(row.Get("reference_quarter"))
	if err != nil {
		return rec, fmt.Errorf("row %d: %w", row.Line, err)
	}
	rec.Quarter = quarter

	for _, f := range []struct {
		col string
		dst *float64
	}{
		{"employment_rate", &rec.EmploymentRate},
		{"unemployment_rate", &rec.UnemploymentRate},
		{"participation_rate", &rec.ParticipationRate},
		{"wage_price_index", &rec.WageIndex},
		{"employment_to_wage_ratio", &rec.EmploymentToWageRatio},
		{"economic_performance_score", &rec.PerformanceScore},
		{"job_vacancy_rate", &rec.VacancyRate},
	} {
		v, err := strconv.ParseFloat(row.Get(f.col), 64)
		if err != nil {
			return rec, fmt.Errorf("row %d: bad %s %q", row.Line, f.col, row.Get(f.col))
		}
		*f.dst = v
	}
	for _, f := range []struct {
		col string
		dst *int
	}{
		{"labour_force", &rec.LabourForce},
		{"population", &rec.Population},
		{"job_vacancies", &rec.Vacancies},
	} {
		v, err := strconv.Atoi(row.Get(f.col))
		if err != nil {
			return rec, fmt.Errorf("row %d: bad %s %q", row.Line, f.col, row.Get(f.col))
		}
		*f.dst = v
	}
	if raw := row.Get("annual_wage_growth_rate"); raw != "" {
		g, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rec, fmt.Errorf("row %d: bad annual_wage_growth_rate %q", row.Line, raw)
		}
		rec.WageGrowth = &g
	}
	rec.WageGrowthCategory = row.Get("wage_growth_category")
	rec.EmploymentCategory = row.Get("employment_category")
	return rec, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
