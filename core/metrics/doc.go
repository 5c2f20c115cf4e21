package metrics

// Package metrics defines the run-level observability contract. Recorders
// like the textfile and Prometheus recorders receive one observation per
// pipeline run and can be combined with NewMultiRecorder. The factory
// helpers return a MultiRecorder automatically when multiple recorders are
// configured.
