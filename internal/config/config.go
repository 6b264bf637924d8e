// Package config loads the CLI configuration from an optional YAML file and
// EPITREND_-prefixed environment variables, with environment taking
// precedence. The pipeline core carries no configuration of its own; worker
// counts and feed paths are passed into it explicitly.
package config

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "epitrend/internal/errors"
)

const envPrefix = "EPITREND"

// Config is the complete CLI configuration.
type Config struct {
	Feeds    FeedsConfig    `yaml:"feeds" envconfig:"FEEDS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
}

// FeedsConfig locates the input feeds on disk.
type FeedsConfig struct {
	National string `yaml:"national" envconfig:"NATIONAL" default:"data/dpc-covid19-ita-andamento-nazionale.csv" validate:"required"`
	Regional string `yaml:"regional" envconfig:"REGIONAL" default:"data/dpc-covid19-ita-regioni.csv" validate:"required"`
}

// PipelineConfig tunes the data-parallel stages.
type PipelineConfig struct {
	// Workers bounds the worker pools used by derivation and ranking.
	// Zero selects the available CPU count.
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"0" validate:"gte=0"`
}

// LoggingConfig controls the CLI log handler.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

// ExportConfig controls report export.
type ExportConfig struct {
	Dir   string `yaml:"dir" envconfig:"DIR" default:"reports" validate:"required"`
	Excel bool   `yaml:"excel" envconfig:"EXCEL" default:"true"`
}

// Load reads configuration from the environment and, when present, the YAML
// file named by EPITREND_CONFIG (default config.yaml). Environment values
// win over file values; both win over defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("load config from env", err)
	}

	path := os.Getenv(envPrefix + "_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, apperrors.NewConfigError("load config from file", err).
				WithContext("path", path)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every field at its default value.
// Must be kept in sync with the struct-tag defaults above.
func Default() *Config {
	return &Config{
		Feeds: FeedsConfig{
			National: "data/dpc-covid19-ita-andamento-nazionale.csv",
			Regional: "data/dpc-covid19-ita-regioni.csv",
		},
		Pipeline: PipelineConfig{Workers: 0},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Export:   ExportConfig{Dir: "reports", Excel: true},
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// Workers is the effective worker-pool size.
func (c *Config) Workers() int {
	if c.Pipeline.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Pipeline.Workers
}

// LogLevel maps the configured level name onto slog.
func (c *Config) LogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays env values on top of file values. Presence in the
// environment is checked directly, so a variable explicitly set to its
// default value still beats the file.
func merge(fileCfg, envCfg Config) Config {
	if !envSet("FEEDS_NATIONAL") && fileCfg.Feeds.National != "" {
		envCfg.Feeds.National = fileCfg.Feeds.National
	}
	if !envSet("FEEDS_REGIONAL") && fileCfg.Feeds.Regional != "" {
		envCfg.Feeds.Regional = fileCfg.Feeds.Regional
	}
	if !envSet("PIPELINE_WORKERS") && fileCfg.Pipeline.Workers != 0 {
		envCfg.Pipeline.Workers = fileCfg.Pipeline.Workers
	}
	if !envSet("LOGGING_LEVEL") && fileCfg.Logging.Level != "" {
		envCfg.Logging.Level = fileCfg.Logging.Level
	}
	if !envSet("LOGGING_FORMAT") && fileCfg.Logging.Format != "" {
		envCfg.Logging.Format = fileCfg.Logging.Format
	}
	if !envSet("EXPORT_DIR") && fileCfg.Export.Dir != "" {
		envCfg.Export.Dir = fileCfg.Export.Dir
	}
	return envCfg
}

func envSet(suffix string) bool {
	_, ok := os.LookupEnv(envPrefix + "_" + suffix)
	return ok
}
