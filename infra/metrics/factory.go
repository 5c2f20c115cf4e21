package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ozstats/labourpipe/core/factory"
	coremetrics "github.com/ozstats/labourpipe/core/metrics"
)

// init registers built-in run recorders.
func init() {
	_ = coremetrics.RegisterRecorder("nop", func(map[string]any) (coremetrics.Recorder, error) {
		return coremetrics.NopRecorder{}, nil
	})

	_ = coremetrics.RegisterRecorder("textfile", func(conf map[string]any) (coremetrics.Recorder, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("textfile recorder: path is required")
		}
		return NewTextfileRecorder(c.Path), nil
	})

	_ = coremetrics.RegisterRecorder("prometheus", func(map[string]any) (coremetrics.Recorder, error) {
		return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterRecorder("influx", func(conf map[string]any) (coremetrics.Recorder, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxRecorderWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
