package observability

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider := NewProvider(&Config{
		ServiceName: "test-service",
		Environment: "test",
		LogLevel:    "info",
	})

	assert.NotNil(t, provider)
	assert.Implements(t, (*Provider)(nil), provider)
	assert.Equal(t, os.Stderr, provider.config.LogOutput)
}

func TestDefaultProvider_Logger(t *testing.T) {
	var buf bytes.Buffer
	provider := NewProvider(&Config{
		ServiceName:      "test",
		Environment:      "test",
		LogLevel:         "info",
		LogOutput:        &buf,
		AdditionalFields: Fields{"version": "1.0.0"},
	})
	defer provider.Close()

	logger1 := provider.Logger("collector")
	logger2 := provider.Logger("collector")
	logger3 := provider.Logger("storage")

	assert.Same(t, logger1, logger2)
	assert.NotSame(t, logger1, logger3)

	logger1.Info(context.Background(), "hello", nil)
	assert.Contains(t, buf.String(), `"component":"collector"`)
	assert.Contains(t, buf.String(), `"version":"1.0.0"`)
}

func TestDefaultProvider_Metrics(t *testing.T) {
	provider := NewProvider(&Config{ServiceName: "test", Environment: "test"})

	metrics1 := provider.Metrics("collector")
	metrics2 := provider.Metrics("collector")
	metrics3 := provider.Metrics("storage.fs")

	assert.Same(t, metrics1, metrics2)
	assert.NotSame(t, metrics1, metrics3)
}

func TestDefaultProvider_WriteTextfile(t *testing.T) {
	provider := NewProvider(&Config{ServiceName: "image-collector", Environment: "test"})
	_, m := provider.Components("collector")
	m.RecordSuccess("collect")

	path := filepath.Join(t.TempDir(), "collector.prom")
	require.NoError(t, provider.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `image_collector_collector_processed_total{status="success",type="collect"} 1`)
}

func TestOpenLogOutput(t *testing.T) {
	w, err := OpenLogOutput("stdout")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)

	w, err = OpenLogOutput("")
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)

	path := filepath.Join(t.TempDir(), "collector.log")
	w, err = OpenLogOutput(path)
	require.NoError(t, err)
	defer w.(*os.File).Close()
	assert.FileExists(t, path)
}
