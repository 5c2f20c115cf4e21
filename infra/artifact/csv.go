// Package artifact provides the built-in artifact sinks: CSV and JSON files
// and a SQLite database. Sinks register themselves with the core registry at
// init time.
package artifact

import (
	"io"

	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/pkg/export"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

// CSVSink writes the merged table to a CSV file, atomically.
type CSVSink struct {
	Path string
}

// NewCSVSink creates a sink writing to path.
func NewCSVSink(path string) *CSVSink { return &CSVSink{Path: path} }

func (s *CSVSink) WriteMerged(recs []model.MergedRecord) error {
	return tabular.WriteFileAtomic(s.Path, func(w io.Writer) error {
		return export.WriteMergedCSV(w, recs)
	})
}

func (s *CSVSink) Close() error { return nil }
