// Package generator produces synthetic ABS-style source extracts for local
// development and scenario runs: a multi-quarter wage price index table in
// the raw publication layout, and a labour force snapshot for the final
// generated quarter.
package generator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ozstats/labourpipe/config"
	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/infra/logger"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

// wageHeader mirrors the ABS publication extract consumed by the cleaner.
var wageHeader = []string{
	"State_Territory", "State_Code", "Quarter", "Wage_Price_Index",
	"Annual_Growth_Rate", "Data_Type", "Unit", "Reference_Period",
}

var labourHeader = []string{
	"State", "State_Code", "Employment_Rate", "Unemployment_Rate",
	"Participation_Rate", "Labour_Force", "Population", "Year_Quarter",
}

// states follows the publication order of the extract, not the canonical
// alphabetical order.
var states = []model.Region{
	model.NSW, model.VIC, model.QLD, model.WA,
	model.SA, model.TAS, model.ACT, model.NT,
}

// baseIndex holds the index level per region at the quarter before the
// first generated one. WA, ACT and NT sit higher: mining, public sector
// and remote work premiums.
var baseIndex = map[model.Region]float64{
	model.NSW: 145.2,
	model.VIC: 144.8,
	model.QLD: 143.5,
	model.WA:  148.1,
	model.SA:  142.3,
	model.TAS: 141.7,
	model.ACT: 147.3,
	model.NT:  146.8,
}

// quarterlyGrowth is the index step per generated quarter, cycled when more
// quarters are requested than the pattern covers. Sums to roughly 3.2%
// annual growth.
var quarterlyGrowth = []float64{0.7, 0.8, 0.9, 0.8, 0.7, 0.8, 0.9}

type labourRow struct {
	region        model.Region
	employment    float64
	unemployment  float64
	participation float64
	labourForce   int
	population    int
}

// labourSnapshot is the fixed labour force table emitted for the final
// generated quarter.
var labourSnapshot = []labourRow{
	{model.NSW, 64.4, 4.2, 66.1, 4521000, 8166000},
	{model.VIC, 64.9, 4.5, 67.2, 3721000, 6681000},
	{model.QLD, 64.3, 4.3, 66.9, 2874000, 5460000},
	{model.WA, 66.8, 3.8, 68.9, 1571000, 2786000},
	{model.SA, 61.7, 4.1, 63.4, 912000, 1820000},
	{model.TAS, 59.8, 4.4, 61.5, 279000, 572000},
	{model.ACT, 68.9, 3.4, 70.8, 257000, 456000},
	{model.NT, 65.1, 4.0, 67.6, 134000, 250000},
}

// Generator emits reproducible synthetic source tables.
type Generator struct {
	cfg   config.GeneratorConfig
	log   logger.Logger
	noise distuv.Normal
}

// New creates a generator seeded from the configuration.
func New(cfg config.GeneratorConfig) *Generator {
	return &Generator{
		cfg: cfg,
		log: logger.New("generator"),
		noise: distuv.Normal{
			Mu:    0,
			Sigma: cfg.NoiseSigma,
			Src:   rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)),
		},
	}
}

// Run writes the wage and labour source files.
func (g *Generator) Run() error {
	if err := tabular.WriteFileAtomic(g.cfg.WageOutput, g.WriteWage); err != nil {
		return fmt.Errorf("writing wage source: %w", err)
	}
	if err := tabular.WriteFileAtomic(g.cfg.LabourOutput, g.WriteLabour); err != nil {
		return fmt.Errorf("writing labour source: %w", err)
	}
	g.log.Infof("generated %d quarters of wage data and a labour snapshot at %s",
		g.cfg.Quarters, g.Target())
	return nil
}

// Target returns the last generated quarter, which the labour snapshot and
// downstream pipeline runs refer to.
func (g *Generator) Target() model.Quarter {
	return g.cfg.Start().AddQuarters(g.cfg.Quarters - 1)
}

// WriteWage writes the wage extract: one row per quarter and region with the
// index level, the annual growth against the year-ago baseline, and the
// publication metadata columns.
func (g *Generator) WriteWage(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(wageHeader); err != nil {
		return err
	}
	start := g.cfg.Start()
	for i := 0; i < g.cfg.Quarters; i++ {
		quarter := start.AddQuarters(i)
		for _, region := range states {
			raw := baseIndex[region] + g.cumGrowth(i+1) + g.noise.Rand()

			// The first quarter has no year-ago baseline to grow from.
			growth := ""
			if i > 0 {
				prev := i - 3
				if prev < 0 {
					prev = 0
				}
				baseline := baseIndex[region] + g.cumGrowth(prev)
				growth = strconv.FormatFloat(round((raw-baseline)/baseline*100, 2), 'f', 2, 64)
			}

			row := []string{
				region.FullName(),
				region.String(),
				quarter.String(),
				strconv.FormatFloat(round(raw, 1), 'f', 1, 64),
				growth,
				"All Sectors",
				"Index Points",
				quarter.String(),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLabour writes the labour force snapshot for the final quarter.
func (g *Generator) WriteLabour(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(labourHeader); err != nil {
		return err
	}
	quarter := g.Target()
	for _, r := range labourSnapshot {
		row := []string{
			r.region.FullName(),
			r.region.String(),
			strconv.FormatFloat(r.employment, 'f', 1, 64),
			strconv.FormatFloat(r.unemployment, 'f', 1, 64),
			strconv.FormatFloat(r.participation, 'f', 1, 64),
			strconv.Itoa(r.labourForce),
			strconv.Itoa(r.population),
			quarter.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// cumGrowth sums the first n quarterly growth steps.
func (g *Generator) cumGrowth(n int) float64 {
	var s float64
	for i := 0; i < n; i++ {
		s += quarterlyGrowth[i%len(quarterlyGrowth)]
	}
	return s
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
