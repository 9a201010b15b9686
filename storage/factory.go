package storage

import (
	"context"
	"fmt"

	"imagecollector/config"
	"imagecollector/observability/types"
	"imagecollector/storage/adapters/fs"
	"imagecollector/storage/adapters/s3"
	storagetypes "imagecollector/storage/types"
)

// New creates the storage target selected by cfg.Provider.
// This is the only place that knows about concrete implementations.
func New(ctx context.Context, cfg *config.StorageConfig, logger types.Logger, metrics types.Metrics) (storagetypes.ObjectStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}

	switch cfg.Provider {
	case config.StorageFilesystem:
		return fs.NewStorage(cfg.Path, logger, metrics)
	case config.StorageS3:
		return s3.NewClient(ctx, cfg, logger, metrics)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}
