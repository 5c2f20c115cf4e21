package cleaner

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ozstats/labourpipe/config"
	"github.com/ozstats/labourpipe/core/logger"
	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/core/pipeline"
	"github.com/ozstats/labourpipe/pkg/export"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

// Cleaner reduces the raw wage price index table to one row per canonical
// region at the reference quarter, with annual growth computed against the
// prior-year quarter.
type Cleaner struct {
	cfg    config.CleanerConfig
	log    logger.Logger
	notify func(pipeline.Transition)
}

// New returns a Cleaner. notify may be nil.
func New(cfg config.CleanerConfig, log logger.Logger, notify func(pipeline.Transition)) *Cleaner {
	return &Cleaner{cfg: cfg, log: log, notify: notify}
}

// Result is the outcome of one cleaning run.
type Result struct {
	Records  []model.WageRecord
	Warnings []pipeline.Warning
	Quarter  model.Quarter
	// RowsRead counts data rows in the source, RowsUsed the observations
	// surviving the sector and validity filters across all quarters.
	RowsRead int
	RowsUsed int
	// Output is the written artifact, empty unless Run wrote one.
	Output string
}

// observation is one usable (region, quarter) index reading.
type observation struct {
	index float64
	line  int
}

// Run executes the staged cleaning pipeline against cfg.Source and writes
// the cleaned CSV to output atomically. On a fatal condition no artifact is
// written and a previously existing one stays untouched.
func (c *Cleaner) Run(output string) (*Result, error) {
	tr := pipeline.NewTracker(c.notify)
	if err := tr.To(pipeline.StageLoading); err != nil {
		return nil, err
	}
	table, warns, err := tabular.ReadFile(c.cfg.Source)
	if err != nil {
		_ = tr.Fail()
		return nil, fmt.Errorf("loading wage source: %w", err)
	}

	res := &Result{Quarter: c.cfg.Target(), RowsRead: len(table.Rows), Warnings: warns}
	if err := tr.To(pipeline.StageValidating); err != nil {
		return nil, err
	}
	obs, err := c.collect(table, res)
	if err != nil {
		_ = tr.Fail()
		return nil, err
	}

	if err := tr.To(pipeline.StageTransforming); err != nil {
		return nil, err
	}
	c.derive(obs, res)

	if err := tr.To(pipeline.StageWriting); err != nil {
		return nil, err
	}
	if err := tabular.WriteFileAtomic(output, func(w io.Writer) error {
		return export.WriteWageCSV(w, res.Records)
	}); err != nil {
		_ = tr.Fail()
		return nil, fmt.Errorf("writing cleaned wage table: %w", err)
	}
	res.Output = output

	if err := tr.To(pipeline.StageDone); err != nil {
		return nil, err
	}
	c.log.Infof("cleaned %d of %d rows into %d regions for %s",
		res.RowsUsed, res.RowsRead, len(res.Records), res.Quarter)
	return res, nil
}

// CleanTable cleans an already loaded table without staging or writing.
// The merger uses it to fall back to the raw source when the cleaned
// artifact is missing.
func (c *Cleaner) CleanTable(table *tabular.Table) (*Result, error) {
	res := &Result{Quarter: c.cfg.Target(), RowsRead: len(table.Rows)}
	obs, err := c.collect(table, res)
	if err != nil {
		return nil, err
	}
	c.derive(obs, res)
	return res, nil
}

// collect filters the table down to usable observations keyed by region and
// quarter. Unknown regions and unusable values become warnings; a duplicate
// observation for the same region and quarter is fatal.
func (c *Cleaner) collect(table *tabular.Table, res *Result) (map[model.Region]map[model.Quarter]observation, error) {
	regionCol := c.cfg.Columns["region"]
	codeCol := c.cfg.Columns["region_code"]
	quarterCol := c.cfg.Columns["quarter"]
	indexCol := c.cfg.Columns["index"]
	sectorCol := c.cfg.Columns["sector"]

	var missing []string
	for _, col := range []string{quarterCol, indexCol} {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if !table.HasColumn(regionCol) && !table.HasColumn(codeCol) {
		missing = append(missing, regionCol)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("wage source lacks required columns %v (have %v)", missing, table.Headers)
	}
	filterSector := table.HasColumn(sectorCol)

	obs := make(map[model.Region]map[model.Quarter]observation)
	for _, row := range table.Rows {
		if filterSector && !sameToken(row.Get(sectorCol), c.cfg.Sector) {
			continue
		}

		quarter, err := model.ParseQuarter(row.Get(quarterCol))
		if err != nil {
			res.warn(pipeline.Warning{
				Kind:   pipeline.WarnMalformedRow,
				Row:    row.Line,
				Detail: fmt.Sprintf("row %d: bad quarter %q", row.Line, row.Get(quarterCol)),
			})
			continue
		}

		rawIndex := row.Get(indexCol)
		if isMissing(rawIndex) {
			res.warn(pipeline.Warning{
				Kind:   pipeline.WarnMissingValue,
				Row:    row.Line,
				Detail: fmt.Sprintf("row %d: no usable index value (%q)", row.Line, rawIndex),
			})
			continue
		}
		index, err := strconv.ParseFloat(rawIndex, 64)
		if err != nil || index <= 0 {
			res.warn(pipeline.Warning{
				Kind:   pipeline.WarnMalformedRow,
				Row:    row.Line,
				Detail: fmt.Sprintf("row %d: bad index value %q", row.Line, rawIndex),
			})
			continue
		}

		raw := row.Get(codeCol)
		if raw == "" {
			raw = row.Get(regionCol)
		}
		region, ok := model.ParseRegion(raw)
		if !ok {
			w, _ := pipeline.AsWarning(&pipeline.UnknownRegionError{Raw: raw, Row: row.Line})
			res.warn(w)
			continue
		}

		if obs[region] == nil {
			obs[region] = make(map[model.Quarter]observation)
		}
		if prev, dup := obs[region][quarter]; dup {
			return nil, &pipeline.DuplicateRegionError{
				Region:  region,
				Quarter: quarter,
				Rows:    [2]int{prev.line, row.Line},
			}
		}
		obs[region][quarter] = observation{index: index, line: row.Line}
		res.RowsUsed++
	}
	return obs, nil
}

// derive emits one record per canonical region observed at the target
// quarter, in canonical order, computing growth where history allows.
func (c *Cleaner) derive(obs map[model.Region]map[model.Quarter]observation, res *Result) {
	target := res.Quarter
	prior := target.YearAgo()
	for _, region := range model.CanonicalRegions {
		history := obs[region]
		cur, ok := history[target]
		if !ok {
			continue
		}
		rec := model.WageRecord{Region: region, Index: cur.index, Quarter: target}
		if base, ok := history[prior]; ok {
			rec.Growth = model.Float(round1((cur.index/base.index - 1) * 100))
		} else {
			w, _ := pipeline.AsWarning(&pipeline.MissingHistoryError{Region: region, Wanted: prior})
			res.warn(w)
		}
		res.Records = append(res.Records, rec)
	}
}

func (r *Result) warn(w pipeline.Warning) {
	r.Warnings = append(r.Warnings, w)
}

// isMissing reports values the source uses for unavailable numbers.
func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "n.a.", "na":
		return true
	}
	return false
}

// sameToken compares strings ignoring case and internal whitespace runs.
func sameToken(a, b string) bool {
	return strings.EqualFold(
		strings.Join(strings.Fields(a), " "),
		strings.Join(strings.Fields(b), " "),
	)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
