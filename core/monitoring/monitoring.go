// Package monitoring reports pipeline failures to an external error tracker.
// The process-wide monitor is a nop until Init installs a real one, so runs
// without a configured tracker pay nothing.
package monitoring

import "time"

// Monitor receives failed runs and panics.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the process-wide monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if current != nil {
		current.CaptureException(err, tags)
	}
}

// Recover captures panics in goroutines.
func Recover() {
	if current != nil {
		current.Recover()
	}
}

// Flush flushes buffered events before the process exits.
func Flush(d time.Duration) {
	if current != nil {
		current.Flush(d)
	}
}
