package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvVarLogLevel is the environment variable name for setting the log level.
	EnvVarLogLevel = "LOG_LEVEL"

	logFileMode = 0o600
	logDirMode  = 0o755
)

// NewStructuredLogger creates a JSON logger writing to w at the specified level.
// Module name and version are included in the logger's context.
// AddSource is enabled for debug level logging only.
// Parameters:
//   - w: Destination of the log records.
//   - module: The name of the module/application using the logger.
//   - version: The version of the module/application (e.g., "v1.0.0").
//   - level: The log level as a string (e.g., "debug", "info", "warn", "error").
//
// Returns:
//   - *slog.Logger: A pointer to the configured slog.Logger instance.
func NewStructuredLogger(w io.Writer, module, version, level string) *slog.Logger {
	lev := ParseLogLevel(level)
	addSource := lev <= slog.LevelDebug

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lev,
		AddSource: addSource,
	})).With("module", module, "version", version)
}

// SetDefaultLoggerWithLevel sets a logger writing to w at the given level as the default logger.
func SetDefaultLoggerWithLevel(w io.Writer, module, version, level string) {
	slog.SetDefault(NewStructuredLogger(w, module, version, level))
}

// SetDefaultFileLogger sets a logger appending to the file at path as the default logger.
// It is used while a full-screen program owns the terminal and stderr is not readable.
// The returned closer must be closed when logging is done.
func SetDefaultFileLogger(path, module, version, level string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), logDirMode); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	SetDefaultLoggerWithLevel(f, module, version, level)

	return f, nil
}

// ParseLogLevel converts a string representation of a log level into a slog.Level.
// Defaults to slog.LevelInfo for unrecognized strings.
func ParseLogLevel(level string) slog.Level {
	var lev slog.Level

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lev = slog.LevelDebug
	case "warn", "warning":
		lev = slog.LevelWarn
	case "error":
		lev = slog.LevelError
	default:
		lev = slog.LevelInfo
	}

	return lev
}
