package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*BlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  level,
		Format: "json",
		Output: &buf,
	})
	return logger, &buf
}

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var records []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		records = append(records, record)
	}
	return records
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
		{"  Error  ", LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)
	ctx := context.Background()

	logger.Debug(ctx, "dropped debug")
	logger.Info(ctx, "dropped info")
	logger.Warn(ctx, nil, "kept warn")
	logger.Error(ctx, errors.New("boom"), "kept error")

	records := decodeRecords(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, "kept warn", records[0]["msg"])
	assert.Equal(t, "kept error", records[1]["msg"])
	assert.Equal(t, "boom", records[1]["error"])
}

func TestLoggerFields(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)
	ctx := context.Background()

	scoped := logger.WithComponent("scanner").With("content_dir", "articles")
	scoped.Info(ctx, "scan complete", "documents", 42)

	records := decodeRecords(t, buf)
	require.Len(t, records, 1)
	assert.Equal(t, "scanner", records[0]["component"])
	assert.Equal(t, "articles", records[0]["content_dir"])
	assert.Equal(t, float64(42), records[0]["documents"])
}

func TestWithDoesNotMutateParent(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)
	ctx := context.Background()

	child := logger.With("slug", "cancellable-promises")
	child.Info(ctx, "child")
	logger.Info(ctx, "parent")

	records := decodeRecords(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, "cancellable-promises", records[0]["slug"])
	_, hasSlug := records[1]["slug"]
	assert.False(t, hasSlug, "parent logger should not inherit child fields")
}

func TestWithOddFieldCount(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	// A trailing key without a value must not panic or produce a field.
	logger.With("orphan").Info(context.Background(), "ok")

	records := decodeRecords(t, buf)
	require.Len(t, records, 1)
	_, hasOrphan := records[0]["orphan"]
	assert.False(t, hasOrphan)
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer

	// Non-file writers can never be a terminal.
	assert.Equal(t, "json", resolveFormat("auto", &buf))
	assert.Equal(t, "json", resolveFormat("", &buf))

	// Explicit formats pass through untouched.
	assert.Equal(t, "text", resolveFormat("text", &buf))
	assert.Equal(t, "json", resolveFormat("json", &buf))
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	timer := logger.StartOperation("scan")
	timer.End(context.Background())

	records := decodeRecords(t, buf)
	require.Len(t, records, 1)
	assert.Equal(t, "operation completed", records[0]["msg"])
	assert.Equal(t, "scan", records[0]["operation"])
	assert.Contains(t, records[0], "duration_ms")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
	assert.Equal(t, "abc", Truncate("abc", 0))

	long := strings.Repeat("x", 150)
	got := Truncate(long, 100)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("x", 100)))
	assert.Contains(t, got, "[50 more bytes]")
}
