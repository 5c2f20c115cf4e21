// Package artifact defines sinks that receive the merged analysis table
// after a successful run. Sinks are configured by type name and can be
// combined with NewMultiSink; the factory helpers return a MultiSink
// automatically when multiple sinks are configured.
package artifact

import "github.com/ozstats/labourpipe/core/model"

// Sink receives the merged analysis table. Implementations decide the
// destination: CSV and JSON files, a SQLite database.
type Sink interface {
	WriteMerged(recs []model.MergedRecord) error
	Close() error
}

// NopSink discards the table.
type NopSink struct{}

func (NopSink) WriteMerged([]model.MergedRecord) error { return nil }
func (NopSink) Close() error                           { return nil }

// MultiSink fans the merged table out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// WriteMerged forwards the table to all sinks, returning the first error
// encountered.
func (m *MultiSink) WriteMerged(recs []model.MergedRecord) error {
	for _, s := range m.Sinks {
		if err := s.WriteMerged(recs); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink. All sinks are closed even when one fails; the
// first error wins.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
