package config

import "github.com/ozstats/labourpipe/core/factory"

// MetricsConfig defines settings for run metrics recorders.
type MetricsConfig struct {
	// Recorders lists metric destinations ("textfile", "prometheus",
	// "influx", "nop"). Empty disables metrics.
	Recorders []factory.ModuleConfig `json:"recorders"`
}
