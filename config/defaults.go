package config

import "time"

const (
	// DefaultMaxFileSize is the largest image accepted, 10 MiB.
	DefaultMaxFileSize int64 = 10 * 1024 * 1024

	// DefaultFilename is used when the URL path has no basename.
	DefaultFilename = "downloaded_image.jpg"

	// DefaultStoragePath is the directory images are collected into.
	DefaultStoragePath = "Fetched_Images"
)

// DefaultHTTPConfig returns sensible defaults for HTTP client configuration
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:      10 * time.Second,
		MaxRetries:   0,
		RetryBackoff: time.Second,
		UserAgent:    "image-collector/1.0",
	}
}

// DefaultDownloadConfig returns the download limits used when nothing is configured
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		MaxFileSize:     DefaultMaxFileSize,
		DefaultFilename: DefaultFilename,
	}
}

// DefaultStorageConfig returns sensible defaults for storage configuration
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Provider:   StorageFilesystem,
		Path:       DefaultStoragePath,
		StagingDir: DefaultStoragePath,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		S3: S3Config{
			Region: "us-east-2",
		},
	}
}

// DefaultConfig returns a complete configuration with sensible defaults
// This is useful for testing or when you want to start with defaults and override specific parts
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		ServiceName: "image-collector",
		LogLevel:    "warn",
		Version:     "1.0.0",

		HTTP:     DefaultHTTPConfig(),
		Download: DefaultDownloadConfig(),
		Storage:  DefaultStorageConfig(),
		Observability: ObservabilityConfig{
			LogOutput: "stderr",
		},
		Lambda: LambdaConfig{
			Timeout: 180 * time.Second,
		},
	}
}
