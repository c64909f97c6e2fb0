package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancycli/internal/config"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestNewLogger_InjectsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	ctx := WithTraceID(context.Background(), "run-123")
	logger.InfoContext(ctx, "parsed", slog.Int("rows", 3))
	logger.Info("no trace")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "parsed", recs[0]["msg"])
	assert.Equal(t, "run-123", recs[0]["trace_id"])
	assert.Equal(t, float64(3), recs[0]["rows"])
	assert.NotContains(t, recs[1], "trace_id")
}

func TestNewLogger_WithAttrsKeepsTraceInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(&buf, "debug"), "parser")

	logger.DebugContext(WithTraceID(context.Background(), "abc"), "row dropped")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "parser", recs[0]["component"])
	assert.Equal(t, "abc", recs[0]["trace_id"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.level))
		})
	}

	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitializeLogger_FileOutput(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	path := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("written to file")
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	first, err := InitializeLogger(DefaultConfig())
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = EnsureTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	assert.Same(t, logger, WithError(logger, nil))

	WithError(logger, assert.AnError).Error("failed")
	assert.Contains(t, buf.String(), assert.AnError.Error())
}
