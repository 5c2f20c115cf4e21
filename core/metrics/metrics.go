package metrics

import (
	"time"

	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/core/pipeline"
)

// StageDuration is the wall-clock time one component spent in one stage.
type StageDuration struct {
	Component string
	Stage     pipeline.Stage
	Duration  time.Duration
}

// TableRows tracks row attrition for one source table.
type TableRows struct {
	Table string
	Read  int
	Used  int
}

// RunObservation is the final accounting of one pipeline run.
type RunObservation struct {
	RunID         string
	Quarter       model.Quarter
	Succeeded     bool
	Finished      time.Time
	Duration      time.Duration
	Stages        []StageDuration
	Tables        []TableRows
	WarningCounts map[pipeline.WarningKind]int
	Regions       int
}

// Recorder records the outcome of a run.
type Recorder interface {
	RecordRun(obs RunObservation) error
}

// NopRecorder discards observations.
type NopRecorder struct{}

func (NopRecorder) RecordRun(RunObservation) error { return nil }

// MultiRecorder fans observations out to multiple recorders.
type MultiRecorder struct {
	Recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder with the provided recorders.
func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	return &MultiRecorder{Recorders: recs}
}

// RecordRun forwards the observation to all recorders, returning the first
// error encountered.
func (m *MultiRecorder) RecordRun(obs RunObservation) error {
	for _, r := range m.Recorders {
		if err := r.RecordRun(obs); err != nil {
			return err
		}
	}
	return nil
}
