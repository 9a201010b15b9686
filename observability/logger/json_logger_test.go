package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagecollector/observability/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"unknown", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "debug", DebugLevel.String())
	assert.Equal(t, "error", ErrorLevel.String())
	assert.Equal(t, "unknown", LogLevel(99).String())
}

func TestJSONLogger_LogLevels(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*JSONLogger, context.Context)
		shouldLog bool
	}{
		{
			name:     "debug level logs debug",
			logLevel: "debug",
			logMethod: func(l *JSONLogger, ctx context.Context) {
				l.Debug(ctx, "test", nil)
			},
			shouldLog: true,
		},
		{
			name:     "info level skips debug",
			logLevel: "info",
			logMethod: func(l *JSONLogger, ctx context.Context) {
				l.Debug(ctx, "test", nil)
			},
			shouldLog: false,
		},
		{
			name:     "warn level skips info",
			logLevel: "warn",
			logMethod: func(l *JSONLogger, ctx context.Context) {
				l.Info(ctx, "test", nil)
			},
			shouldLog: false,
		},
		{
			name:     "error level logs error",
			logLevel: "error",
			logMethod: func(l *JSONLogger, ctx context.Context) {
				l.Error(ctx, "test", errors.New("boom"), nil)
			},
			shouldLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New("test", "test", tt.logLevel, &buf, nil)

			tt.logMethod(logger, context.Background())

			if tt.shouldLog {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestJSONLogger_EntryFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New("collector", "test", "debug", &buf, types.Fields{"version": "1.0.0"})

	ctx := WithURL(WithRunID(context.Background(), "run-1"), "https://example.com/a.png")
	logger.WithFields(types.Fields{"component": "usecase"}).
		Error(ctx, "Download failed", errors.New("dial tcp: refused"), types.Fields{"attempt": 2})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "collector", entry["service"])
	assert.Equal(t, "Download failed", entry["message"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "https://example.com/a.png", entry["url"])
	assert.Equal(t, "dial tcp: refused", entry["error"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, "usecase", entry["component"])
	assert.Equal(t, float64(2), entry["attempt"])
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestJSONLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New("collector", "test", "info", &buf, nil)

	child := parent.WithFields(types.Fields{"url": "https://example.com"})
	child.Info(context.Background(), "child", nil)
	parent.Info(context.Background(), "parent", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "https://example.com")
	assert.NotContains(t, lines[1], "https://example.com")
}
