package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Provider manages configuration lifecycle and ensures singleton behavior
type Provider struct {
	config *Config
	mu     sync.RWMutex
	loaded bool
}

var (
	instance *Provider
	once     sync.Once
)

// GetProvider returns the singleton configuration provider instance
func GetProvider() *Provider {
	once.Do(func() {
		instance = &Provider{}
	})
	return instance
}

// Load loads configuration from environment variables and .env files
// This should be called once at application startup
func (p *Provider) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return nil
	}

	if err := p.loadEnvFiles(); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}

	cfg, err := p.parseConfig()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	p.config = cfg
	p.loaded = true
	return nil
}

// Get returns the current configuration
// Returns error if configuration hasn't been loaded
func (p *Provider) Get() (*Config, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.loaded || p.config == nil {
		return nil, fmt.Errorf("configuration not loaded; call Load() first")
	}

	return p.config, nil
}

// loadEnvFiles loads .env files in order of precedence
func (p *Provider) loadEnvFiles() error {
	// Base .env never overrides the real environment
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env != "" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Overload(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if _, err := os.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			return fmt.Errorf("failed to load .env.local: %w", err)
		}
	}

	return nil
}

// parseConfig parses configuration from environment variables
func (p *Provider) parseConfig() (*Config, error) {
	defaults := DefaultConfig()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "local"),
		ServiceName: getEnv("SERVICE_NAME", defaults.ServiceName),
		LogLevel:    getEnv("LOG_LEVEL", defaults.LogLevel),
		Version:     getEnv("SERVICE_VERSION", defaults.Version),

		HTTP: HTTPConfig{
			Timeout:      getDuration("HTTP_TIMEOUT", "10s"),
			MaxRetries:   getInt("HTTP_MAX_RETRIES", defaults.HTTP.MaxRetries),
			RetryBackoff: getDuration("HTTP_RETRY_BACKOFF", "1s"),
			UserAgent:    getEnv("HTTP_USER_AGENT", defaults.HTTP.UserAgent),
		},

		Download: DownloadConfig{
			MaxFileSize:     getInt64("DOWNLOAD_MAX_FILE_SIZE", defaults.Download.MaxFileSize),
			DefaultFilename: getEnv("DOWNLOAD_DEFAULT_FILENAME", defaults.Download.DefaultFilename),
		},

		Storage: StorageConfig{
			Provider:   getEnv("STORAGE_PROVIDER", defaults.Storage.Provider),
			Path:       getEnv("STORAGE_PATH", defaults.Storage.Path),
			StagingDir: getEnv("STORAGE_STAGING_DIR", ""),
			Timeout:    getDuration("STORAGE_TIMEOUT", "30s"),
			MaxRetries: getInt("STORAGE_MAX_RETRIES", defaults.Storage.MaxRetries),
			S3: S3Config{
				Region:          getEnv("AWS_REGION", defaults.Storage.S3.Region),
				Bucket:          getEnv("S3_BUCKET", ""),
				Prefix:          getEnv("S3_PREFIX", ""),
				Endpoint:        getEnv("S3_ENDPOINT", ""),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			},
		},

		Observability: ObservabilityConfig{
			LogOutput:       getEnv("LOG_OUTPUT", defaults.Observability.LogOutput),
			MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
		},

		Lambda: LambdaConfig{
			Timeout: getDuration("LAMBDA_TIMEOUT", "180s"),
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}
