package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestNewStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(&buf, "menuview", "v1.2.3", "warn")

	log.Info("dropped")
	log.Warn("kept", "kind", "status")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "menuview", rec["module"])
	assert.Equal(t, "v1.2.3", rec["version"])
	assert.Equal(t, "status", rec["kind"])
	assert.NotContains(t, rec, slog.SourceKey)
}

func TestNewStructuredLoggerDebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	NewStructuredLogger(&buf, "menuview", "dev", "debug").Debug("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Contains(t, rec, slog.SourceKey)
}

func TestSetDefaultFileLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "menuview.log")

	closer, err := SetDefaultFileLogger(path, "menuview", "dev", "info")
	require.NoError(t, err)

	slog.Error("failed to fetch menu", "kind", "network")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"failed to fetch menu"`)
	assert.Contains(t, string(b), `"kind":"network"`)
}
