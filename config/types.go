package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Core settings
	Environment string
	ServiceName string
	LogLevel    string
	Version     string

	// Component configurations
	HTTP          HTTPConfig
	Download      DownloadConfig
	Storage       StorageConfig
	Observability ObservabilityConfig
	Lambda        LambdaConfig
}

// HTTPConfig holds HTTP client configuration
type HTTPConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	UserAgent    string
}

// DownloadConfig holds the per-URL download limits
type DownloadConfig struct {
	MaxFileSize     int64
	DefaultFilename string
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Provider   string // "filesystem" or "s3"
	Path       string // target directory for the filesystem provider
	StagingDir string // where temp files are written; defaults to Path for filesystem
	Timeout    time.Duration
	MaxRetries int
	S3         S3Config
}

// S3Config holds S3-specific configuration
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// ObservabilityConfig holds logging and metrics output settings
type ObservabilityConfig struct {
	LogOutput       string // "stderr", "stdout" or a file path
	MetricsTextfile string
}

// LambdaConfig holds Lambda-specific configuration
type LambdaConfig struct {
	Timeout time.Duration
}

// Storage provider names
const (
	StorageFilesystem = "filesystem"
	StorageS3         = "s3"
)

// Validate validates the entire configuration
func (c *Config) Validate() error {
	var errors []string

	if c.ServiceName == "" {
		errors = append(errors, "SERVICE_NAME is required")
	}

	if c.HTTP.Timeout <= 0 {
		errors = append(errors, "HTTP_TIMEOUT must be positive")
	}
	if c.HTTP.MaxRetries < 0 {
		errors = append(errors, "HTTP_MAX_RETRIES cannot be negative")
	}
	if c.Download.MaxFileSize <= 0 {
		errors = append(errors, "DOWNLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Download.DefaultFilename == "" {
		errors = append(errors, "DOWNLOAD_DEFAULT_FILENAME is required")
	}

	if err := c.Storage.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate checks the storage section for the selected provider
func (s *StorageConfig) Validate() error {
	switch s.Provider {
	case StorageFilesystem:
		if s.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required for the filesystem provider")
		}
	case StorageS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 provider")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER: %q", s.Provider)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("STORAGE_TIMEOUT must be positive")
	}
	return nil
}

// applyDefaults fills values that depend on other settings
func (c *Config) applyDefaults() {
	c.Storage.Provider = strings.ToLower(strings.TrimSpace(c.Storage.Provider))

	if c.Storage.StagingDir == "" && c.Storage.Provider == StorageFilesystem {
		// Staging next to the target keeps the final rename on one filesystem.
		c.Storage.StagingDir = c.Storage.Path
	}

	c.Storage.S3.Prefix = NormalizePrefix(c.Storage.S3.Prefix)

	if c.IsProduction() && c.LogLevel == "debug" {
		c.LogLevel = "info"
	}
}

// NormalizePrefix turns an S3 key prefix into a folder form: no leading
// slash and exactly one trailing slash. Empty stays empty.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}
