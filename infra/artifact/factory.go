package artifact

import (
	"fmt"

	coreartifact "github.com/ozstats/labourpipe/core/artifact"
	"github.com/ozstats/labourpipe/core/factory"
)

// init registers built-in artifact sinks.
func init() {
	_ = coreartifact.RegisterSink("nop", func(map[string]any) (coreartifact.Sink, error) {
		return coreartifact.NopSink{}, nil
	})

	_ = coreartifact.RegisterSink("csv", func(conf map[string]any) (coreartifact.Sink, error) {
		path, err := sinkPath(conf)
		if err != nil {
			return nil, fmt.Errorf("csv sink: %w", err)
		}
		return NewCSVSink(path), nil
	})

	_ = coreartifact.RegisterSink("json", func(conf map[string]any) (coreartifact.Sink, error) {
		path, err := sinkPath(conf)
		if err != nil {
			return nil, fmt.Errorf("json sink: %w", err)
		}
		return NewJSONSink(path), nil
	})

	_ = coreartifact.RegisterSink("sqlite", func(conf map[string]any) (coreartifact.Sink, error) {
		path, err := sinkPath(conf)
		if err != nil {
			return nil, fmt.Errorf("sqlite sink: %w", err)
		}
		return NewSQLiteSink(path)
	})
}

func sinkPath(conf map[string]any) (string, error) {
	var c struct {
		Path string `json:"path"`
	}
	if err := factory.Decode(conf, &c); err != nil {
		return "", err
	}
	if c.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	return c.Path, nil
}
