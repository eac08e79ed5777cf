// Package config loads and validates monitoring configuration from an
// optional TOML file plus CLI flag overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Abbiirr/simple-procmon/internal/alert"
)

const (
	// DefaultInterval is the poll interval when none is configured.
	DefaultInterval = 2 * time.Second
	// MinInterval is the smallest accepted poll interval.
	MinInterval = 100 * time.Millisecond
)

var (
	ErrIntervalTooSmall = errors.New("poll interval below minimum")
	ErrBadTraceTarget   = errors.New("trace target must be a positive pid")
	ErrBadExportPath    = errors.New("export path must end in .json or .html")
)

// LogConfig mirrors lumberjack rotation settings for the optional log
// file.
type LogConfig struct {
	File       string `toml:"file" mapstructure:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
}

// Config is the full monitoring configuration. The CLI surface fills it
// from flags; a TOML file may provide the same keys as a base layer.
type Config struct {
	// Selection
	ProcessType string `toml:"type" mapstructure:"type"`       // python, node, java, ... or all
	Pattern     string `toml:"pattern" mapstructure:"pattern"` // substring match on name or cmdline
	TracePID    int32  `toml:"trace_pid" mapstructure:"trace_pid"`

	// Loop
	Interval time.Duration `toml:"interval" mapstructure:"interval"`

	// Output
	Tree       bool   `toml:"tree" mapstructure:"tree"`
	ExportPath string `toml:"export" mapstructure:"export"`
	TracePath  string `toml:"trace_csv" mapstructure:"trace_csv"`
	DBPath     string `toml:"db" mapstructure:"db"`
	ServeAddr  string `toml:"serve" mapstructure:"serve"`
	Verbose    bool   `toml:"verbose" mapstructure:"verbose"`

	Thresholds alert.Thresholds `toml:"thresholds" mapstructure:"thresholds"`
	Log        LogConfig        `toml:"log" mapstructure:"log"`
}

// Default returns a config with every optional feature off.
func Default() Config {
	return Config{
		ProcessType: "all",
		Interval:    DefaultInterval,
	}
}

// Validate rejects configurations that must fail at startup, before the
// poll loop begins.
func (c *Config) Validate() error {
	if c.Interval < MinInterval {
		return fmt.Errorf("%w: %s < %s", ErrIntervalTooSmall, c.Interval, MinInterval)
	}
	if c.TracePID < 0 {
		return fmt.Errorf("%w: %d", ErrBadTraceTarget, c.TracePID)
	}
	if c.ExportPath != "" {
		lower := strings.ToLower(c.ExportPath)
		if !strings.HasSuffix(lower, ".json") && !strings.HasSuffix(lower, ".html") {
			return fmt.Errorf("%w: %s", ErrBadExportPath, c.ExportPath)
		}
	}
	if c.Thresholds.CPUPercent < 0 || c.Thresholds.MemoryMB < 0 {
		return errors.New("thresholds must not be negative")
	}
	return nil
}

// Load reads a TOML config file and applies it on top of Default().
// An empty path returns Default() untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.ProcessType == "" {
		cfg.ProcessType = "all"
	}
	return cfg, nil
}
