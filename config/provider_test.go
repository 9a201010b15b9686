package config

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Singleton(t *testing.T) {
	instance = nil
	once = sync.Once{}

	provider1 := GetProvider()
	provider2 := GetProvider()

	assert.Same(t, provider1, provider2, "should return same instance")
}

func TestProvider_LoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	provider := &Provider{}
	require.NoError(t, provider.Load())

	cfg, err := provider.Get()
	require.NoError(t, err)
	assert.Equal(t, "image-collector", cfg.ServiceName)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 0, cfg.HTTP.MaxRetries)
	assert.Equal(t, int64(10*1024*1024), cfg.Download.MaxFileSize)
	assert.Equal(t, "downloaded_image.jpg", cfg.Download.DefaultFilename)
	assert.Equal(t, StorageFilesystem, cfg.Storage.Provider)
	assert.Equal(t, "Fetched_Images", cfg.Storage.Path)
	assert.Equal(t, "Fetched_Images", cfg.Storage.StagingDir)
	assert.Equal(t, "stderr", cfg.Observability.LogOutput)
}

func TestProvider_LoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("DOWNLOAD_MAX_FILE_SIZE", "2048")
	t.Setenv("STORAGE_PATH", "images")
	t.Setenv("STORAGE_STAGING_DIR", "/tmp/staging")

	provider := &Provider{}
	require.NoError(t, provider.Load())

	cfg, err := provider.Get()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, int64(2048), cfg.Download.MaxFileSize)
	assert.Equal(t, "images", cfg.Storage.Path)
	assert.Equal(t, "/tmp/staging", cfg.Storage.StagingDir)
}

func TestProvider_LoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	unsetenv("SERVICE_NAME")
	unsetenv("STORAGE_PATH")
	require.NoError(t, writeFile(dir, ".env", "SERVICE_NAME=from-dotenv\nSTORAGE_PATH=dotenv-images\n"))
	t.Cleanup(func() {
		unsetenv("SERVICE_NAME")
		unsetenv("STORAGE_PATH")
	})

	provider := &Provider{}
	require.NoError(t, provider.Load())

	cfg, err := provider.Get()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.ServiceName)
	assert.Equal(t, "dotenv-images", cfg.Storage.Path)
}

func TestProvider_GetBeforeLoad(t *testing.T) {
	provider := &Provider{}

	_, err := provider.Get()
	assert.Error(t, err)
}

func TestProvider_LoadInvalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_PROVIDER", "s3")
	t.Setenv("S3_BUCKET", "")

	provider := &Provider{}
	err := provider.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET is required")
	_, err = provider.Get()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		expectedError string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:          "missing service name",
			mutate:        func(c *Config) { c.ServiceName = "" },
			expectedError: "SERVICE_NAME is required",
		},
		{
			name:          "zero timeout",
			mutate:        func(c *Config) { c.HTTP.Timeout = 0 },
			expectedError: "HTTP_TIMEOUT must be positive",
		},
		{
			name:          "negative retries",
			mutate:        func(c *Config) { c.HTTP.MaxRetries = -1 },
			expectedError: "HTTP_MAX_RETRIES cannot be negative",
		},
		{
			name:          "zero max file size",
			mutate:        func(c *Config) { c.Download.MaxFileSize = 0 },
			expectedError: "DOWNLOAD_MAX_FILE_SIZE must be positive",
		},
		{
			name:          "unknown storage provider",
			mutate:        func(c *Config) { c.Storage.Provider = "ftp" },
			expectedError: "unsupported STORAGE_PROVIDER",
		},
		{
			name:          "filesystem without path",
			mutate:        func(c *Config) { c.Storage.Path = "" },
			expectedError: "STORAGE_PATH is required",
		},
		{
			name: "s3 with bucket",
			mutate: func(c *Config) {
				c.Storage.Provider = StorageS3
				c.Storage.S3.Bucket = "images"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestConfig_Environment(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Environment = "dev"
	assert.False(t, cfg.IsProduction())

	cfg.Environment = "PROD"
	assert.True(t, cfg.IsProduction())

	cfg.Environment = "production"
	cfg.LogLevel = "debug"
	cfg.applyDefaults()
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestGetDuration_Fallback(t *testing.T) {
	t.Setenv("TEST_DURATION", "not-a-duration")
	assert.Equal(t, 5*time.Second, getDuration("TEST_DURATION", "5s"))
}

func TestProvider_NormalizesS3Prefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"images", "images/"},
		{"images/", "images/"},
		{"/images", "images/"},
		{"a/b", "a/b/"},
		{"", ""},
		{"/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("STORAGE_PROVIDER", "s3")
			t.Setenv("S3_BUCKET", "images")
			t.Setenv("S3_PREFIX", tt.prefix)

			provider := &Provider{}
			require.NoError(t, provider.Load())

			cfg, err := provider.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Storage.S3.Prefix)
		})
	}
}
