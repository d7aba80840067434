// Package config loads splitfair settings from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mmynk/splitfair/internal/calculator"
	"github.com/mmynk/splitfair/internal/errs"
)

// Config holds every setting the CLI and services read.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Split      SplitConfig      `mapstructure:"split"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SplitConfig struct {
	// Tolerance is the largest |sum - total| that still counts as reconciled, exclusive.
	Tolerance int64  `mapstructure:"tolerance"`
	Remainder string `mapstructure:"remainder"`
}

type SettlementConfig struct {
	Epsilon int64 `mapstructure:"epsilon"`
}

type MetricsConfig struct {
	// Textfile, when set, receives the counters in Prometheus text format after each command.
	Textfile string `mapstructure:"textfile"`
}

// EnvKeyReplacer maps nested keys to env names, e.g. split.tolerance to SPLITFAIR_SPLIT_TOLERANCE.
var EnvKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "./data/splitfair.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("split.tolerance", calculator.DefaultTolerance)
	v.SetDefault("split.remainder", string(calculator.RemainderLast))
	v.SetDefault("settlement.epsilon", calculator.DefaultEpsilon)
	v.SetDefault("metrics.textfile", "")
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Metrics.Textfile = ExpandPath(cfg.Metrics.Textfile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errs.Validation("database.path", "must not be empty")
	}
	switch calculator.RemainderPolicy(c.Split.Remainder) {
	case calculator.RemainderLast, calculator.RemainderRoundRobin:
	default:
		return errs.Validation("split.remainder", "unknown policy %q", c.Split.Remainder)
	}
	if c.Split.Tolerance < 1 {
		return errs.Validation("split.tolerance", "must be at least 1, got %d", c.Split.Tolerance)
	}
	if c.Settlement.Epsilon < 0 {
		return errs.Validation("settlement.epsilon", "must not be negative, got %d", c.Settlement.Epsilon)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return errs.Validation("logging.format", "unknown format %q", c.Logging.Format)
	}
	return nil
}

// Calculator builds a split calculator from the split settings.
func (c *Config) Calculator() calculator.Calculator {
	return calculator.Calculator{
		Tolerance: c.Split.Tolerance,
		Remainder: calculator.RemainderPolicy(c.Split.Remainder),
	}
}

// Planner builds a settlement planner from the settlement settings.
func (c *Config) Planner() calculator.Planner {
	return calculator.Planner{Epsilon: c.Settlement.Epsilon}
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
