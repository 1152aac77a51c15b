// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable consulted for the default log level.
const EnvLogLevel = "LOG_LEVEL"

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
// Unknown or empty names return slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// levelFromEnv returns the level set in LOG_LEVEL, or info.
func levelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(EnvLogLevel))
}

// SetDefaultStructuredLogger installs a JSON logger on stderr tagged with the
// module name and version. Used by long-running services.
func SetDefaultStructuredLogger(name, version string) {
	SetDefaultStructuredLoggerWithLevel(name, version, levelFromEnv())
}

// SetDefaultStructuredLoggerWithLevel is SetDefaultStructuredLogger with an explicit level.
func SetDefaultStructuredLoggerWithLevel(name, version string, level slog.Level) {
	slog.SetDefault(newStructuredLogger(os.Stderr, name, version, level))
}

func newStructuredLogger(w io.Writer, name, version string, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	return slog.New(h).With("module", name, "version", version)
}

// SetDefaultCLILogger installs a terse text logger on stderr for interactive use.
func SetDefaultCLILogger(level slog.Level) {
	slog.SetDefault(newCLILogger(os.Stderr, level))
}

func newCLILogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(h)
}
