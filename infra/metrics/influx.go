package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/ozstats/labourpipe/core/metrics"
	"github.com/ozstats/labourpipe/infra/logger"
)

// InfluxRecorder writes run observations to an InfluxDB instance using the
// official client, one series per run and per stage.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxRecorder creates a recorder configured for the given InfluxDB
// endpoint.
func NewInfluxRecorder(url, token, org, bucket string) *InfluxRecorder {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-recorder"),
	}
}

// NewInfluxRecorderWithFallback tries to ping the InfluxDB instance and
// returns a NopRecorder if the health check fails.
func NewInfluxRecorderWithFallback(url, token, org, bucket string) coremetrics.Recorder {
	rec := NewInfluxRecorder(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := rec.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			rec.log.Errorf("influx health check error: %v", err)
		} else {
			rec.log.Errorf("influx health status: %s", health.Status)
		}
		rec.client.Close()
		return coremetrics.NopRecorder{}
	}
	return rec
}

// RecordRun writes the observation as one run point plus per-stage and
// per-table points sharing the run tag.
func (r *InfluxRecorder) RecordRun(obs coremetrics.RunObservation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	at := obs.Finished
	if at.IsZero() {
		at = time.Now()
	}
	warnings := 0
	for _, n := range obs.WarningCounts {
		warnings += n
	}

	run := write.NewPointWithMeasurement("labourpipe_run").
		AddTag("run_id", obs.RunID).
		AddTag("quarter", obs.Quarter.String()).
		AddTag("succeeded", strconv.FormatBool(obs.Succeeded)).
		AddField("duration_ms", obs.Duration.Milliseconds()).
		AddField("regions", obs.Regions).
		AddField("warnings", warnings).
		SetTime(at)
	if err := r.writeAPI.WritePoint(ctx, run); err != nil {
		return err
	}

	for _, s := range obs.Stages {
		p := write.NewPointWithMeasurement("labourpipe_stage").
			AddTag("run_id", obs.RunID).
			AddTag("component", s.Component).
			AddTag("stage", s.Stage.String()).
			AddField("duration_ms", s.Duration.Milliseconds()).
			SetTime(at)
		if err := r.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	for _, tb := range obs.Tables {
		p := write.NewPointWithMeasurement("labourpipe_table").
			AddTag("run_id", obs.RunID).
			AddTag("table", tb.Table).
			AddField("rows_read", tb.Read).
			AddField("rows_used", tb.Used).
			SetTime(at)
		if err := r.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts down the underlying client.
func (r *InfluxRecorder) Close() { r.client.Close() }
