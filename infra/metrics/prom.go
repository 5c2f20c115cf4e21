package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/ozstats/labourpipe/core/metrics"
)

// PromRecorder exposes run metrics on a Prometheus registerer, for embedding
// the pipeline in a process that already serves /metrics.
type PromRecorder struct {
	success  prometheus.Gauge
	duration prometheus.Gauge
	finished prometheus.Gauge
	info     *prometheus.GaugeVec
	stages   *prometheus.GaugeVec
	rowsRead *prometheus.GaugeVec
	rowsUsed *prometheus.GaugeVec
	warnings *prometheus.GaugeVec
	regions  prometheus.Gauge
}

// NewPromRecorder registers run metrics on the default Prometheus registerer.
func NewPromRecorder() (*PromRecorder, error) {
	return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromRecorderWithRegistry(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PromRecorder{
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "labourpipe_run_success",
			Help: "Whether the last pipeline run succeeded",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "labourpipe_run_duration_seconds",
			Help: "Wall-clock duration of the last run",
		}),
		finished: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "labourpipe_run_completion_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "labourpipe_run_info",
			Help: "Reference quarter of the last run",
		}, []string{"quarter"}),
		stages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "labourpipe_stage_duration_seconds",
			Help: "Wall-clock duration per component and pipeline stage",
		}, []string{"component", "stage"}),
		rowsRead: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "labourpipe_table_rows_read",
			Help: "Rows read per source table",
		}, []string{"table"}),
		rowsUsed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "labourpipe_table_rows_used",
			Help: "Rows surviving validation per source table",
		}, []string{"table"}),
		warnings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "labourpipe_warnings",
			Help: "Warnings per kind for the last run",
		}, []string{"kind"}),
		regions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "labourpipe_merged_regions",
			Help: "Regions in the merged table of the last run",
		}),
	}

	var err error
	if r.success, err = registered(reg, r.success); err != nil {
		return nil, err
	}
	if r.duration, err = registered(reg, r.duration); err != nil {
		return nil, err
	}
	if r.finished, err = registered(reg, r.finished); err != nil {
		return nil, err
	}
	if r.info, err = registered(reg, r.info); err != nil {
		return nil, err
	}
	if r.stages, err = registered(reg, r.stages); err != nil {
		return nil, err
	}
	if r.rowsRead, err = registered(reg, r.rowsRead); err != nil {
		return nil, err
	}
	if r.rowsUsed, err = registered(reg, r.rowsUsed); err != nil {
		return nil, err
	}
	if r.warnings, err = registered(reg, r.warnings); err != nil {
		return nil, err
	}
	if r.regions, err = registered(reg, r.regions); err != nil {
		return nil, err
	}
	return r, nil
}

// registered registers c, reusing the existing collector when the registerer
// already carries one under the same descriptor.
func registered[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(T), nil
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// RecordRun sets the gauges from the observation.
func (r *PromRecorder) RecordRun(obs coremetrics.RunObservation) error {
	if obs.Succeeded {
		r.success.Set(1)
	} else {
		r.success.Set(0)
	}
	r.duration.Set(obs.Duration.Seconds())
	if !obs.Finished.IsZero() {
		r.finished.Set(float64(obs.Finished.Unix()))
	}
	if !obs.Quarter.IsZero() {
		r.info.WithLabelValues(obs.Quarter.String()).Set(1)
	}
	for _, s := range obs.Stages {
		r.stages.WithLabelValues(s.Component, s.Stage.String()).Set(s.Duration.Seconds())
	}
	for _, tb := range obs.Tables {
		r.rowsRead.WithLabelValues(tb.Table).Set(float64(tb.Read))
		r.rowsUsed.WithLabelValues(tb.Table).Set(float64(tb.Used))
	}
	for kind, n := range obs.WarningCounts {
		r.warnings.WithLabelValues(string(kind)).Set(float64(n))
	}
	r.regions.Set(float64(obs.Regions))
	return nil
}
