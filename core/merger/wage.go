package merger

import (
	"fmt"
	"strconv"

	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/core/pipeline"
	"github.com/ozstats/labourpipe/pkg/export"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

// CleanedFile is a WageSource reading the cleaned wage artifact.
type CleanedFile string

func (p CleanedFile) WageRecords() ([]model.WageRecord, []pipeline.Warning, error) {
	table, warns, err := tabular.ReadFile(string(p))
	if err != nil {
		return nil, nil, err
	}
	for _, col := range export.WageHeader {
		if !table.HasColumn(col) {
			return nil, nil, fmt.Errorf("%s is not a cleaned wage table: missing column %s", p, col)
		}
	}

	var recs []model.WageRecord
	for _, row := range table.Rows {
		quarter, err := model.ParseQuarter(row.Get("reference_quarter"))
		if err != nil {
			warns = append(warns, pipeline.Warning{
				Kind:   pipeline.WarnMalformedRow,
				Row:    row.Line,
				Detail: fmt.Sprintf("row %d: bad quarter %q", row.Line, row.Get("reference_quarter")),
			})
			continue
		}
		index, err := strconv.ParseFloat(row.Get("wage_price_index"), 64)
		if err != nil {
			warns = append(warns, pipeline.Warning{
				Kind:   pipeline.WarnMalformedRow,
				Row:    row.Line,
				Detail: fmt.Sprintf("row %d: bad index %q", row.Line, row.Get("wage_price_index")),
			})
			continue
		}
		rec := model.WageRecord{Index: index, Quarter: quarter}
		if raw := row.Get("annual_wage_growth_rate"); raw != "" {
			g, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				warns = append(warns, pipeline.Warning{
					Kind:   pipeline.WarnMalformedRow,
					Row:    row.Line,
					Detail: fmt.Sprintf("row %d: bad growth %q", row.Line, raw),
				})
				continue
			}
			rec.Growth = &g
		}
		// Keep the raw code when it is not canonical so validation can
		// report it.
		if region, ok := model.ParseRegion(row.Get("region_code")); ok {
			rec.Region = region
		} else {
			rec.Region = model.Region(row.Get("region_code"))
		}
		recs = append(recs, rec)
	}
	return recs, warns, nil
}

// validateWage maps cleaned wage records onto canonical regions. Unknown
// regions become warnings; duplicates and mixed quarters are fatal.
func (m *Merger) validateWage(recs []model.WageRecord, res *Result) (map[model.Region]model.WageRecord, error) {
	out := make(map[model.Region]model.WageRecord, len(recs))
	var quarter model.Quarter
	for _, rec := range recs {
		if !rec.Region.Valid() {
			w, _ := pipeline.AsWarning(&pipeline.UnknownRegionError{Raw: string(rec.Region)})
			res.warn(w)
			continue
		}
		if err := rec.Validate(); err != nil {
			res.warn(pipeline.Warning{
				Kind:   pipeline.WarnMalformedRow,
				Region: rec.Region,
				Detail: err.Error(),
			})
			continue
		}
		if quarter.IsZero() {
			quarter = rec.Quarter
		} else if rec.Quarter != quarter {
			return nil, &pipeline.TemporalMisalignmentError{Table: "wage", Want: quarter, Got: rec.Quarter}
		}
		if _, dup := out[rec.Region]; dup {
			return nil, &pipeline.DuplicateRegionError{Region: rec.Region, Quarter: rec.Quarter}
		}
		out[rec.Region] = rec
	}
	res.WageRegions = len(out)
	return out, nil
}
