package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/ozstats/labourpipe/core/model"
)

// WageHeader is the cleaned wage table contract.
var WageHeader = []string{
	"region_code",
	"wage_price_index",
	"annual_wage_growth_rate",
	"reference_quarter",
}

// MergedHeader is the merged analysis table contract.
var MergedHeader = []string{
	"region_code",
	"employment_rate",
	"unemployment_rate",
	"participation_rate",
	"labour_force",
	"population",
	"wage_price_index",
	"annual_wage_growth_rate",
	"employment_to_wage_ratio",
	"wage_growth_category",
	"employment_category",
	"economic_performance_score",
	"job_vacancy_rate",
	"job_vacancies",
	"reference_quarter",
}

// WriteWageCSV writes cleaned wage records to w with the contract header.
// A nil growth becomes an empty field.
func WriteWageCSV(w io.Writer, recs []model.WageRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(WageHeader); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			r.Region.String(),
			fixed(r.Index, 1),
			optional(r.Growth, 1),
			r.Quarter.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHistoricalWageCSV writes wage records with annual growth at two
// decimals, the precision backfilled history is synthesised at.
func WriteHistoricalWageCSV(w io.Writer, recs []model.WageRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(WageHeader); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			r.Region.String(),
			fixed(r.Index, 1),
			optional(r.Growth, 2),
			r.Quarter.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMergedCSV writes merged records to w with the contract header.
func WriteMergedCSV(w io.Writer, recs []model.MergedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MergedHeader); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write(MergedRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHistoricalMergedCSV is WriteMergedCSV with annual growth at two
// decimals.
func WriteHistoricalMergedCSV(w io.Writer, recs []model.MergedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MergedHeader); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write(mergedRow(r, 2)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MergedRow renders one merged record in MergedHeader order.
func MergedRow(r model.MergedRecord) []string {
	return mergedRow(r, 1)
}

func mergedRow(r model.MergedRecord, growthDecimals int) []string {
	return []string{
		r.Region.String(),
		fixed(r.EmploymentRate, 1),
		fixed(r.UnemploymentRate, 1),
		fixed(r.ParticipationRate, 1),
		strconv.Itoa(r.LabourForce),
		strconv.Itoa(r.Population),
		fixed(r.WageIndex, 1),
		optional(r.WageGrowth, growthDecimals),
		fixed(r.EmploymentToWageRatio, 3),
		r.WageGrowthCategory,
		r.EmploymentCategory,
		fixed(r.PerformanceScore, 1),
		fixed(r.VacancyRate, 1),
		strconv.Itoa(r.Vacancies),
		r.Quarter.String(),
	}
}

// WriteMergedJSON writes merged records to w as a JSON array with the same
// snake_case field names as the CSV, so chart specs can address either file.
func WriteMergedJSON(w io.Writer, recs []model.MergedRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// fixed renders v with the given number of decimals.
func fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// optional renders a nullable growth rate, empty when absent.
func optional(v *float64, decimals int) string {
	if v == nil {
		return ""
	}
	return fixed(*v, decimals)
}
