// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	// The batch jobs run with Pretty on: their progress output is meant to
	// be read in a terminal.
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// JobConfig returns the configuration used by the batch jobs:
// human-readable progress on stdout, level from the LOG_LEVEL env var.
func JobConfig() Config {
	return Config{
		Level:  LogLevel(os.Getenv("LOG_LEVEL")),
		Pretty: true,
		Output: os.Stdout,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()

	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/miss, key, TTL)
//   - Conditional requests and ETags
//   - Per-worker progress
//
// Info: Normal operation events
//   - Job start/end summaries
//   - Batch progress
//   - Nothing-to-do short circuits
//
// Warn: Warning conditions that don't prevent operation
//   - Per-item fetch failures (item treated as having no data)
//   - Cache errors (fallback to direct fetch)
//   - Interrupted runs (partial cache persisted)
//
// Error: Error conditions requiring attention
//   - Unreadable input files
//   - Unwritable cache or report files
//
// Context Fields:
//   - item_id: integer item id being fetched
//   - batch / batches: batch progress within a run
//   - outcome: per-item fetch outcome (found, not_found, failed)
//   - slot: equipment slot in report summaries
//   - cache_total: cache entry count after a merge
