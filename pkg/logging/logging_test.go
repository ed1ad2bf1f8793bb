package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestJSONLogger_ModuleAndVersion(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "opmeter", "v1.2.3", slog.LevelInfo)
	l.Info("OK: category/operation#1 1000.0ms; uuid")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "opmeter", rec["module"])
	assert.Equal(t, "v1.2.3", rec["version"])
	assert.Equal(t, "INFO", rec["level"])
	assert.Nil(t, rec["source"], "source only added at debug")
}

func TestJSONLogger_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "opmeter", "dev", slog.LevelDebug)
	l.Debug("SCHEDULED: op#1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotNil(t, rec["source"])
}

func TestTextLogger_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger("opmeter", "dev", "warn", &buf)
	l.Info("dropped")
	l.Warn("kept", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.False(t, strings.Contains(out, "\x1b["), "no ANSI escapes expected: %q", out)
}

func TestSetDefaultStructuredLoggerWithLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	SetDefaultStructuredLoggerWithLevel("opmeter", "dev", "error")
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelError))
}
