package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pivotreport/internal/models"
)

// Config holds the pivot report service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Pivot   PivotConfig   `yaml:"pivot"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	RateLimit   float64  `yaml:"rate_limit"` // requests per second per client, 0 disables
	CORSOrigins []string `yaml:"cors_origins"`
}

// DataConfig lists the dataset files loaded at startup (.csv or .json).
type DataConfig struct {
	Files []string `yaml:"files"`
}

// PivotConfig constrains and defaults pivot requests.
type PivotConfig struct {
	Dimensions  []string `yaml:"dimensions"` // allowed dimension names, empty allows any
	ValueField  string   `yaml:"value_field"`
	Aggregation string   `yaml:"aggregation"`
	Placeholder string   `yaml:"placeholder"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			RateLimit:   20,
			CORSOrigins: []string{"*"},
		},
		Data: DataConfig{
			Files: []string{"data/transactions.csv"},
		},
		Pivot: PivotConfig{
			Dimensions:  []string{"transaction_type", "status", "year"},
			ValueField:  models.DefaultValueField,
			Aggregation: string(models.AggSum),
			Placeholder: models.DefaultPlaceholder,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PIVOT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PIVOT_DATA_FILES"); v != "" {
		var files []string
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
		c.Data.Files = files
	}
	if v := os.Getenv("PIVOT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks values that would otherwise fail late at request time and
// normalizes the aggregation name.
func (c *Config) Validate() error {
	agg, err := models.ParseAggregation(c.Pivot.Aggregation)
	if err != nil {
		return fmt.Errorf("pivot.aggregation: %w", err)
	}
	c.Pivot.Aggregation = string(agg)
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got %v", c.Server.RateLimit)
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// Defaults fills unset request fields from the pivot section.
func (p PivotConfig) Defaults(dc models.DimensionConfig) models.DimensionConfig {
	if dc.ValueField == "" {
		dc.ValueField = p.ValueField
	}
	if dc.Aggregation == "" {
		if agg, err := models.ParseAggregation(p.Aggregation); err == nil {
			dc.Aggregation = agg
		}
	}
	if dc.Placeholder == "" {
		dc.Placeholder = p.Placeholder
	}
	return dc.WithDefaults()
}
