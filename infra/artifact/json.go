package artifact

import (
	"io"

	"github.com/ozstats/labourpipe/core/model"
	"github.com/ozstats/labourpipe/pkg/export"
	"github.com/ozstats/labourpipe/pkg/tabular"
)

// JSONSink writes the merged table to a JSON file, atomically. Field names
// match the CSV header so chart specs can address either file.
type JSONSink struct {
	Path string
}

// NewJSONSink creates a sink writing to path.
func NewJSONSink(path string) *JSONSink { return &JSONSink{Path: path} }

func (s *JSONSink) WriteMerged(recs []model.MergedRecord) error {
	return tabular.WriteFileAtomic(s.Path, func(w io.Writer) error {
		return export.WriteMergedJSON(w, recs)
	})
}

func (s *JSONSink) Close() error { return nil }
