package config

import (
	"fmt"
	"path/filepath"

	"github.com/ozstats/labourpipe/core/factory"
)

// ArtifactsConfig controls where run outputs land.
type ArtifactsConfig struct {
	// Dir anchors every relative artifact path.
	Dir string `json:"dir"`
	// Report is the JSON run report file name.
	Report string `json:"report"`
	// Sinks lists additional destinations for the merged table
	// ("csv", "json", "sqlite"). The contract CSV is always written.
	Sinks []factory.ModuleConfig `json:"sinks"`
}

// SetDefaults applies fallback values.
func (c *ArtifactsConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "data"
	}
	if c.Report == "" {
		c.Report = "run_report.json"
	}
}

// Validate checks the configured values.
func (c ArtifactsConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("sinks[%d]: type is required", i)
		}
	}
	return nil
}

// Resolve anchors path under Dir unless it is already absolute.
func (c ArtifactsConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}
