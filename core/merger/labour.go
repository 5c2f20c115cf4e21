package merger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/core/pipeline"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

// validateLabour maps the labour table onto canonical regions. Unknown
// regions and unusable rows become warnings; a duplicate region or a second
// reference quarter is fatal.
func (m *Merger) validateLabour(table *tabular.Table, res *Result) (map[model.Region]model.LabourRecord, error) {
	cols := m.cfg.Columns
	var missing []string
	for _, key := range []string{"employment_rate", "unemployment_rate", "participation_rate", "labour_force", "population", "quarter"} {
		if !table.HasColumn(cols[key]) {
			missing = append(missing, cols[key])
		}
	}
	if !table.HasColumn(cols["region"]) && !table.HasColumn(cols["region_code"]) {
		missing = append(missing, cols["region"])
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("labour source lacks required columns %v (have %v)", missing, table.Headers)
	}

	out := make(map[model.Region]model.LabourRecord)
	lines := make(map[model.Region]int)
	var quarter model.Quarter
	for _, row := range table.Rows {
		raw := row.Get(cols["region_code"])
		if raw == "" {
			raw = row.Get(cols["region"])
		}
		region, ok := model.ParseRegion(raw)
		if !ok {
			w, _ := pipeline.AsWarning(&pipeline.UnknownRegionError{Raw: raw, Row: row.Line})
			res.warn(w)
			continue
		}

		q, err := model.ParseQuarter(row.Get(cols["quarter"]))
		if err != nil {
			res.warn(pipeline.Warning{
				Kind:   pipeline.WarnMalformedRow,
				Region: region,
				Row:    row.Line,
				Detail: fmt.Sprintf("row %d: bad quarter %q", row.Line, row.Get(cols["quarter"])),
			})
			continue
		}
		if quarter.IsZero() {
			quarter = q
		} else if q != quarter {
			return nil, &pipeline.TemporalMisalignmentError{Table: "labour force", Want: quarter, Got: q}
		}

		rec := model.LabourRecord{Region: region, Quarter: q}
		var parseErr error
		rec.EmploymentRate = parseRate(row.Get(cols["employment_rate"]), &parseErr)
		rec.UnemploymentRate = parseRate(row.Get(cols["unemployment_rate"]), &parseErr)
		rec.ParticipationRate = parseRate(row.Get(cols["participation_rate"]), &parseErr)
		rec.LabourForce = parseCount(row.Get(cols["labour_force"]), &parseErr)
		rec.Population = parseCount(row.Get(cols["population"]), &parseErr)
		if parseErr == nil {
			parseErr = rec.Validate()
		}
		if parseErr != nil {
			res.warn(pipeline.Warning{
				Kind:   pipeline.WarnMalformedRow,
				Region: region,
				Row:    row.Line,
				Detail: fmt.Sprintf("row %d: %v", row.Line, parseErr),
			})
			continue
		}

		if prev, dup := lines[region]; dup {
			return nil, &pipeline.DuplicateRegionError{Region: region, Quarter: q, Rows: [2]int{prev, row.Line}}
		}
		lines[region] = row.Line
		out[region] = rec
	}
	res.LabourRegions = len(out)
	return out, nil
}

// parseRate reads a percentage value, recording the first failure in errp.
func parseRate(s string, errp *error) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && *errp == nil {
		*errp = fmt.Errorf("bad rate %q", s)
	}
	return v
}

// parseCount reads an integer that may carry thousands separators.
func parseCount(s string, errp *error) int {
	v, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil && *errp == nil {
		*errp = fmt.Errorf("bad count %q", s)
	}
	return v
}
