// Package logging builds the service logger. It wraps zerolog with a
// human-readable console writer by default, JSON output on request, and an
// optional size-rotated log file.
package logging

import (
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string

	// JSON switches the console output from human-readable to JSON lines.
	JSON bool

	// FileLogging also writes JSON lines to FilePath, rotated by size.
	FileLogging bool
	FilePath    string
	MaxSizeMB   int
	MaxBackups  int

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig mirrors the defaults of the config package.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		FilePath:   "app.log",
		MaxSizeMB:  1,
		MaxBackups: 5,
	}
}

// New returns the root logger. The returned closer flushes and closes the
// log file and is a no-op when file logging is disabled.
func New(cfg Config) (zerolog.Logger, io.Closer) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var console io.Writer = out
	if !cfg.JSON {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}
	if cfg.FileLogging && cfg.FilePath != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		writers = append(writers, file)
		closer = file
	}

	SetLevel(cfg.Level)

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("service", "neuronote").
		Logger()

	if cfg.FileLogging && cfg.FilePath != "" {
		logger.Info().Str("path", cfg.FilePath).Msg("file logging enabled")
	} else {
		logger.Info().Msg("file logging disabled, logging to console only")
	}

	return logger, closer
}

// ParseLevel converts a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "critical", "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLevel changes the global minimum level. Safe to call while logging.
func SetLevel(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// Component returns a child logger tagged with a component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// Snippet truncates s to at most n bytes for debug logging, never splitting
// a rune.
func Snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
