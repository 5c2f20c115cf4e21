package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Cleaner   CleanerConfig   `json:"cleaner"`
	Merger    MergerConfig    `json:"merger"`
	Artifacts ArtifactsConfig `json:"artifacts"`
	Metrics   MetricsConfig   `json:"metrics"`
	Generator GeneratorConfig `json:"generator"`
	Backfill  BackfillConfig  `json:"backfill"`
	Sentry    SentryConfig    `json:"sentry"`
}

// Load reads the configuration file at path, applies LP_ environment
// overrides, fills defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("LP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "lp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults applies fallback values to every section.
func (c *Config) SetDefaults() {
	c.Cleaner.SetDefaults()
	c.Merger.SetDefaults()
	c.Artifacts.SetDefaults()
	c.Generator.SetDefaults()
	c.Backfill.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Cleaner.Validate(); err != nil {
		return fmt.Errorf("cleaner: %w", err)
	}
	if err := c.Merger.Validate(); err != nil {
		return fmt.Errorf("merger: %w", err)
	}
	if err := c.Artifacts.Validate(); err != nil {
		return fmt.Errorf("artifacts: %w", err)
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := c.Backfill.Validate(); err != nil {
		return fmt.Errorf("backfill: %w", err)
	}
	return nil
}
