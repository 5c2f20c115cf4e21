package artifact

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/ozstats/labourpipe/core/model"
)

// SQLiteSink persists merged tables in a SQLite database, one row per
// region and quarter. Re-running a quarter replaces its rows, so the
// database accumulates history across runs.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens or creates the database and ensures schema.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS merged_labour (
        region_code TEXT,
        reference_quarter TEXT,
        employment_rate REAL,
        unemployment_rate REAL,
        participation_rate REAL,
        labour_force INTEGER,
        population INTEGER,
        wage_price_index REAL,
        annual_wage_growth_rate REAL,
        employment_to_wage_ratio REAL,
        wage_growth_category TEXT,
        employment_category TEXT,
        economic_performance_score REAL,
        job_vacancy_rate REAL,
        job_vacancies INTEGER,
        PRIMARY KEY(region_code, reference_quarter)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteSink{db: db}, nil
}

// WriteMerged upserts all records in one transaction.
func (s *SQLiteSink) WriteMerged(recs []model.MergedRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO merged_labour (
        region_code, reference_quarter, employment_rate, unemployment_rate,
        participation_rate, labour_force, population, wage_price_index,
        annual_wage_growth_rate, employment_to_wage_ratio,
        wage_growth_category, employment_category,
        economic_performance_score, job_vacancy_rate, job_vacancies)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range recs {
		var growth any
		if g, ok := r.GrowthValue(); ok {
			growth = g
		}
		if _, err := stmt.Exec(
			r.Region.String(), r.Quarter.String(),
			r.EmploymentRate, r.UnemploymentRate, r.ParticipationRate,
			r.LabourForce, r.Population,
			r.WageIndex, growth,
			r.EmploymentToWageRatio, r.WageGrowthCategory, r.EmploymentCategory,
			r.PerformanceScore, r.VacancyRate, r.Vacancies,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error { return s.db.Close() }
