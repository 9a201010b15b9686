package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"imagecollector/config"
	httpadapter "imagecollector/internal/adapters/http"
	"imagecollector/internal/service"
	"imagecollector/internal/usecase"
	"imagecollector/observability"
	"imagecollector/storage"
	storagetypes "imagecollector/storage/types"
)

// Dependencies holds all initialized infrastructure components
type Dependencies struct {
	Storage       storagetypes.ObjectStorage
	HTTPClient    *httpadapter.Client
	Observability *observability.DefaultProvider
}

// Application holds the complete application stack
type Application struct {
	Config    *config.Config
	Collector *usecase.Collector
	Logger    observability.Logger
	deps      *Dependencies
}

// LoadConfiguration loads and validates the application configuration
func LoadConfiguration() (*config.Config, error) {
	cfgProvider := config.GetProvider()
	if err := cfgProvider.Load(); err != nil {
		return nil, err
	}
	return cfgProvider.Get()
}

// Build wires observability, storage, the HTTP client and the pipeline
func Build(ctx context.Context, cfg *config.Config) (*Application, error) {
	deps, err := initializeDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}

	collector, err := createCollector(cfg, deps)
	if err != nil {
		deps.Observability.Close()
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Collector: collector,
		Logger:    deps.Observability.Logger("app"),
		deps:      deps,
	}, nil
}

// Observability returns the provider owning loggers and the metrics registry
func (a *Application) Observability() *observability.DefaultProvider {
	return a.deps.Observability
}

// Close flushes the metrics textfile when configured and releases the log output
func (a *Application) Close(ctx context.Context) error {
	var firstErr error

	if path := a.Config.Observability.MetricsTextfile; path != "" {
		if err := a.deps.Observability.WriteTextfile(path); err != nil {
			a.Logger.Error(ctx, "Failed to write metrics textfile", err, observability.Fields{"path": path})
			firstErr = err
		}
	}

	if err := a.deps.Observability.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

// initializeDependencies sets up all infrastructure dependencies
func initializeDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	obs, err := initializeObservability(cfg)
	if err != nil {
		return nil, err
	}

	logStartup(ctx, cfg, obs)

	store, err := initializeStorage(ctx, cfg, obs)
	if err != nil {
		obs.Close()
		return nil, err
	}

	return &Dependencies{
		Storage:       store,
		HTTPClient:    createHTTPClient(cfg),
		Observability: obs,
	}, nil
}

// initializeObservability sets up logging and metrics infrastructure
func initializeObservability(cfg *config.Config) (*observability.DefaultProvider, error) {
	out, err := observability.OpenLogOutput(cfg.Observability.LogOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	return observability.NewProvider(&observability.Config{
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
		LogLevel:         cfg.LogLevel,
		LogOutput:        out,
		AdditionalFields: observability.Fields{"version": cfg.Version},
	}), nil
}

// logStartup logs application startup information
func logStartup(ctx context.Context, cfg *config.Config, obs *observability.DefaultProvider) {
	obs.Logger("main").Info(ctx, "Starting application", observability.Fields{
		"service":          cfg.ServiceName,
		"environment":      cfg.Environment,
		"storage_provider": cfg.Storage.Provider,
		"max_file_size":    cfg.Download.MaxFileSize,
	})
}

// initializeStorage creates the configured storage target
func initializeStorage(ctx context.Context, cfg *config.Config, obs *observability.DefaultProvider) (storagetypes.ObjectStorage, error) {
	logger, metrics := obs.Components("storage." + cfg.Storage.Provider)

	store, err := storage.New(ctx, &cfg.Storage, logger, metrics)
	if err != nil {
		logger.Error(ctx, "Failed to initialize storage", err, nil)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	logger.Debug(ctx, "Storage initialized successfully", nil)
	return store, nil
}

// createHTTPClient creates the HTTP client from the HTTP section
func createHTTPClient(cfg *config.Config) *httpadapter.Client {
	return httpadapter.NewClient(httpadapter.ClientConfig{
		Timeout:      cfg.HTTP.Timeout,
		MaxRetries:   cfg.HTTP.MaxRetries,
		RetryBackoff: cfg.HTTP.RetryBackoff,
		UserAgent:    cfg.HTTP.UserAgent,
	})
}

// createCollector builds the business logic layer
func createCollector(cfg *config.Config, deps *Dependencies) (*usecase.Collector, error) {
	svcLogger, svcMetrics := deps.Observability.Components("service.download")
	downloadService := service.NewDownloadService(
		deps.HTTPClient,
		cfg.Download.MaxFileSize,
		cfg.Download.DefaultFilename,
		svcLogger,
		svcMetrics,
	)

	stagingDir := cfg.Storage.StagingDir
	if stagingDir == "" {
		stagingDir = filepath.Join(os.TempDir(), cfg.ServiceName)
	}

	logger, metrics := deps.Observability.Components("usecase.collector")
	return usecase.NewCollector(
		downloadService,
		deps.Storage,
		usecase.CollectorConfig{
			StagingDir:  stagingDir,
			MaxFileSize: cfg.Download.MaxFileSize,
		},
		logger,
		metrics,
	)
}
