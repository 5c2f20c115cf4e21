// Package report assembles the machine-readable account of a pipeline run:
// identifiers, stage timings, warnings, artifact inventory and table
// summaries, persisted as an indented JSON document next to the artifacts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/core/pipeline"
	"github.com/ozstats/labourpipe/core/stats"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Artifact is one file produced by the run, with its verified shape.
type Artifact struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Records int    `json:"records"`
	Columns int    `json:"columns,omitempty"`
}

// StageTiming is the wall-clock time one component spent in one stage.
type StageTiming struct {
	Component  string         `json:"component"`
	Stage      pipeline.Stage `json:"stage"`
	DurationMS int64          `json:"duration_ms"`
}

// TableCounts tracks row attrition for one source table.
type TableCounts struct {
	Table     string `json:"table"`
	RowsRead  int    `json:"rows_read"`
	RowsUsed  int    `json:"rows_used"`
	Discarded int    `json:"discarded"`
}

// RunReport accumulates everything a run did. Methods are safe to call from
// event subscribers running on other goroutines.
type RunReport struct {
	RunID         string                       `json:"run_id"`
	Started       time.Time                    `json:"started_at"`
	Finished      time.Time                    `json:"finished_at"`
	DurationMS    int64                        `json:"duration_ms"`
	Quarter       model.Quarter                `json:"reference_quarter"`
	Status        string                       `json:"status"`
	Error         string                       `json:"error,omitempty"`
	Stages        []StageTiming                `json:"stages"`
	Tables        []TableCounts                `json:"tables"`
	WarningCounts map[pipeline.WarningKind]int `json:"warning_counts"`
	Warnings      []pipeline.Warning           `json:"warnings"`
	Artifacts     []Artifact                   `json:"artifacts"`
	Wage          *stats.WageStats             `json:"wage_summary,omitempty"`
	Merged        *stats.MergedStats           `json:"merged_summary,omitempty"`

	mu     sync.Mutex
	lastAt time.Time
}

// New starts a report for a run targeting the given reference quarter.
func New(quarter model.Quarter) *RunReport {
	now := time.Now().UTC()
	return &RunReport{
		RunID:         "run-" + uuid.NewString(),
		Started:       now,
		Quarter:       quarter,
		Stages:        []StageTiming{},
		Tables:        []TableCounts{},
		WarningCounts: map[pipeline.WarningKind]int{},
		Warnings:      []pipeline.Warning{},
		Artifacts:     []Artifact{},
		lastAt:        now,
	}
}

// ObserveTransition folds a stage change of the named component into the
// per-stage timings. The idle stage is not timed.
func (r *RunReport) ObserveTransition(component string, tr pipeline.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr.From != pipeline.StageIdle {
		r.Stages = append(r.Stages, StageTiming{
			Component:  component,
			Stage:      tr.From,
			DurationMS: tr.At.Sub(r.lastAt).Milliseconds(),
		})
	}
	r.lastAt = tr.At
}

// AddWarnings records recoverable findings and updates the per-kind tally.
func (r *RunReport) AddWarnings(ws ...pipeline.Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range ws {
		r.Warnings = append(r.Warnings, w)
		r.WarningCounts[w.Kind]++
	}
}

// AddTable records row attrition for one source table.
func (r *RunReport) AddTable(table string, read, used int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Tables = append(r.Tables, TableCounts{
		Table:     table,
		RowsRead:  read,
		RowsUsed:  used,
		Discarded: read - used,
	})
}

// AddArtifact records one produced file.
func (r *RunReport) AddArtifact(a Artifact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Artifacts = append(r.Artifacts, a)
}

// SetWageSummary attaches the cleaned-table statistics.
func (r *RunReport) SetWageSummary(ws stats.WageStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Wage = &ws
}

// SetMergedSummary attaches the merged-table statistics.
func (r *RunReport) SetMergedSummary(ms stats.MergedStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Merged = &ms
}

// Finish stamps the end of the run. A nil err marks success, anything else
// marks failure and keeps the error text.
func (r *RunReport) Finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Finished = time.Now().UTC()
	r.DurationMS = r.Finished.Sub(r.Started).Milliseconds()
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = StatusSucceeded
}

// Write persists the report as indented JSON, atomically.
func (r *RunReport) Write(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return tabular.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	})
}

// VerifyCSV re-reads a written artifact and checks its shape against what
// the writer claims to have produced. It returns the artifact entry on
// success.
func VerifyCSV(kind, path string, wantRows, wantCols int) (Artifact, error) {
	table, _, err := tabular.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("verifying %s: %w", path, err)
	}
	if got := len(table.Rows); got != wantRows {
		return Artifact{}, fmt.Errorf("verifying %s: %d rows on disk, expected %d", path, got, wantRows)
	}
	if got := len(table.Headers); got != wantCols {
		return Artifact{}, fmt.Errorf("verifying %s: %d columns on disk, expected %d", path, got, wantCols)
	}
	return Artifact{Kind: kind, Path: path, Records: wantRows, Columns: wantCols}, nil
}
