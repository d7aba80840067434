// Package logging configures structured logging for log/slog.
//
// Usage:
//
//	logging.Setup()                                // INFO level from LOG_LEVEL env, colored console
//	logging.SetupWithLevel(slog.LevelDebug)        // explicit level override
//	logging.Configure(os.Stderr, "debug", "json")  // level and format from config
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevel(levelFromEnv())
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level, "console")))
}

// Configure installs the default logger for a level and format read from config.
// An empty level falls back to LOG_LEVEL.
func Configure(w io.Writer, level, format string) error {
	lvl := levelFromEnv()
	if level != "" {
		var err error
		if lvl, err = ParseLevel(level); err != nil {
			return err
		}
	}
	if format != "console" && format != "json" {
		return fmt.Errorf("invalid log format: %s", format)
	}
	slog.SetDefault(slog.New(NewHandler(w, lvl, format)))
	return nil
}

// NewHandler returns a tint handler for "console" and a JSON handler otherwise.
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
	})
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

func levelFromEnv() slog.Level {
	lvl, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}
