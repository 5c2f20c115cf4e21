package merger

import (
	"fmt"
	"io"

	"github.com/ozstats/labourpipe/config"
	"github.com/ozstats/labourpipe/core/logger"
	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/core/pipeline"
	"github.com/ozstats/labourpipe/pkg/export"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

// WageSource yields cleaned wage records for a merge run.
type WageSource interface {
	WageRecords() ([]model.WageRecord, []pipeline.Warning, error)
}

// Records is a WageSource over in-memory cleaned records.
type Records []model.WageRecord

func (r Records) WageRecords() ([]model.WageRecord, []pipeline.Warning, error) {
	return r, nil, nil
}

// Merger joins the labour force table with the cleaned wage table on the
// canonical region code and derives the analysis metrics.
type Merger struct {
	cfg    config.MergerConfig
	log    logger.Logger
	notify func(pipeline.Transition)
}

// New returns a Merger. notify may be nil.
func New(cfg config.MergerConfig, log logger.Logger, notify func(pipeline.Transition)) *Merger {
	return &Merger{cfg: cfg, log: log, notify: notify}
}

// Result is the outcome of one merge run.
type Result struct {
	Records  []model.MergedRecord
	Warnings []pipeline.Warning
	Quarter  model.Quarter
	// LabourRegions and WageRegions count the validated rows entering the
	// join from each side.
	LabourRegions int
	WageRegions   int
	// LabourRows and WageRows count the source rows before validation.
	LabourRows int
	WageRows   int
	// Output is the written artifact, empty unless Run wrote one.
	Output string
}

// Run executes the staged merge against cfg.LabourSource and the given wage
// source, writing the merged CSV to output atomically. On a fatal condition
// no artifact is written and a previously existing one stays untouched.
func (m *Merger) Run(wage WageSource, output string) (*Result, error) {
	tr := pipeline.NewTracker(m.notify)
	if err := tr.To(pipeline.StageLoading); err != nil {
		return nil, err
	}
	labourTable, warns, err := tabular.ReadFile(m.cfg.LabourSource)
	if err != nil {
		_ = tr.Fail()
		return nil, fmt.Errorf("loading labour source: %w", err)
	}
	wageRecs, wageWarns, err := wage.WageRecords()
	if err != nil {
		_ = tr.Fail()
		return nil, fmt.Errorf("loading wage records: %w", err)
	}

	res := &Result{
		Warnings:   append(warns, wageWarns...),
		LabourRows: len(labourTable.Rows),
		WageRows:   len(wageRecs),
	}
	if err := tr.To(pipeline.StageValidating); err != nil {
		return nil, err
	}
	labour, err := m.validateLabour(labourTable, res)
	if err != nil {
		_ = tr.Fail()
		return nil, err
	}
	wages, err := m.validateWage(wageRecs, res)
	if err != nil {
		_ = tr.Fail()
		return nil, err
	}
	if err := alignQuarters(labour, wages, res); err != nil {
		_ = tr.Fail()
		return nil, err
	}

	if err := tr.To(pipeline.StageTransforming); err != nil {
		return nil, err
	}
	m.join(labour, wages, res)
	m.derive(res)

	if err := tr.To(pipeline.StageWriting); err != nil {
		return nil, err
	}
	if err := tabular.WriteFileAtomic(output, func(w io.Writer) error {
		return export.WriteMergedCSV(w, res.Records)
	}); err != nil {
		_ = tr.Fail()
		return nil, fmt.Errorf("writing merged table: %w", err)
	}
	res.Output = output

	if err := tr.To(pipeline.StageDone); err != nil {
		return nil, err
	}
	m.log.Infof("merged %d labour and %d wage regions into %d rows for %s",
		res.LabourRegions, res.WageRegions, len(res.Records), res.Quarter)
	return res, nil
}

// alignQuarters pins the run quarter and rejects mismatched inputs. Both
// maps are keyed by region with per-table quarter agreement already checked.
func alignQuarters(labour map[model.Region]model.LabourRecord, wages map[model.Region]model.WageRecord, res *Result) error {
	var labourQ, wageQ model.Quarter
	for _, rec := range labour {
		labourQ = rec.Quarter
		break
	}
	for _, rec := range wages {
		wageQ = rec.Quarter
		break
	}
	if !labourQ.IsZero() && !wageQ.IsZero() && labourQ != wageQ {
		return &pipeline.TemporalMisalignmentError{Table: "merge", Want: labourQ, Got: wageQ}
	}
	res.Quarter = labourQ
	if res.Quarter.IsZero() {
		res.Quarter = wageQ
	}
	return nil
}

// join produces one row per region present on both sides, in canonical
// order. One-sided regions are excluded and reported.
func (m *Merger) join(labour map[model.Region]model.LabourRecord, wages map[model.Region]model.WageRecord, res *Result) {
	for _, region := range model.CanonicalRegions {
		l, hasLabour := labour[region]
		w, hasWage := wages[region]
		switch {
		case hasLabour && hasWage:
			res.Records = append(res.Records, model.MergedRecord{
				Region:            region,
				EmploymentRate:    l.EmploymentRate,
				UnemploymentRate:  l.UnemploymentRate,
				ParticipationRate: l.ParticipationRate,
				LabourForce:       l.LabourForce,
				Population:        l.Population,
				WageIndex:         w.Index,
				WageGrowth:        w.Growth,
				Quarter:           res.Quarter,
			})
		case hasLabour:
			res.warn(pipeline.Warning{
				Kind:   pipeline.WarnJoinMismatch,
				Region: region,
				Detail: fmt.Sprintf("region %s has labour data but no wage data, excluded", region),
			})
		case hasWage:
			res.warn(pipeline.Warning{
				Kind:   pipeline.WarnJoinMismatch,
				Region: region,
				Detail: fmt.Sprintf("region %s has wage data but no labour data, excluded", region),
			})
		}
	}
}

func (r *Result) warn(w pipeline.Warning) {
	r.Warnings = append(r.Warnings, w)
}
