package artifact

import (
	"errors"
	"testing"

	"github.com/ozstats/labourpipe/core/factory"
	"github.com/ozstats/labourpipe/core/model"
)

type captureSink struct {
	rows   int
	closed bool
	fail   bool
}

func (c *captureSink) WriteMerged(recs []model.MergedRecord) error {
	if c.fail {
		return errors.New("sink failed")
	}
	c.rows += len(recs)
	return nil
}

func (c *captureSink) Close() error {
	c.closed = true
	return nil
}

func sample(n int) []model.MergedRecord {
	recs := make([]model.MergedRecord, n)
	for i := range recs {
		recs[i] = model.MergedRecord{Region: "NSW", Quarter: model.MustQuarter("2025-Q3")}
	}
	return recs
}

func TestNewSinkDefaultsToNop(t *testing.T) {
	s, err := NewSink(nil)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("got %T, want NopSink", s)
	}
}

func TestNewSinkUnknownType(t *testing.T) {
	if _, err := NewSink([]factory.ModuleConfig{{Type: "bogus"}}); err == nil {
		t.Fatal("unknown sink type accepted")
	}
}

func TestNewSinkSingle(t *testing.T) {
	cap := &captureSink{}
	if err := RegisterSink("capture-single", func(map[string]any) (Sink, error) {
		return cap, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	s, err := NewSink([]factory.ModuleConfig{{Type: "capture-single"}})
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := s.WriteMerged(sample(3)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if cap.rows != 3 {
		t.Fatalf("rows = %d, want 3", cap.rows)
	}
}

func TestNewSinkFansOut(t *testing.T) {
	a, b := &captureSink{}, &captureSink{}
	if err := RegisterSink("capture-multi-a", func(map[string]any) (Sink, error) { return a, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterSink("capture-multi-b", func(map[string]any) (Sink, error) { return b, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}

	s, err := NewSink([]factory.ModuleConfig{{Type: "capture-multi-a"}, {Type: "capture-multi-b"}})
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if _, ok := s.(*MultiSink); !ok {
		t.Fatalf("got %T, want *MultiSink", s)
	}
	if err := s.WriteMerged(sample(2)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if a.rows != 2 || b.rows != 2 {
		t.Fatalf("rows = %d/%d, want 2/2", a.rows, b.rows)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Fatal("close not propagated to all sinks")
	}
}

func TestMultiSinkStopsAtFirstWriteError(t *testing.T) {
	bad, after := &captureSink{fail: true}, &captureSink{}
	m := NewMultiSink(bad, after)
	if err := m.WriteMerged(sample(1)); err == nil {
		t.Fatal("write error swallowed")
	}
	if after.rows != 0 {
		t.Fatalf("later sink written after failure: rows = %d", after.rows)
	}
}
