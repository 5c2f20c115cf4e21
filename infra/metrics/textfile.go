package metrics

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/ozstats/labourpipe/core/metrics"
)

// TextfileRecorder writes run metrics in the Prometheus text exposition
// format, for the node_exporter textfile collector. Each run replaces the
// file.
type TextfileRecorder struct {
	Path string
}

// NewTextfileRecorder creates a recorder writing to path.
func NewTextfileRecorder(path string) *TextfileRecorder {
	return &TextfileRecorder{Path: path}
}

// RecordRun renders the observation on a fresh registry and persists it.
func (t *TextfileRecorder) RecordRun(obs coremetrics.RunObservation) error {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		return err
	}
	if err := rec.RecordRun(obs); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(t.Path), 0o755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(t.Path, reg)
}
