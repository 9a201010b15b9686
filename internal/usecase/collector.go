package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"imagecollector/internal/domain"
	"imagecollector/internal/domain/util"
	"imagecollector/observability/logger"
	"imagecollector/observability/types"
	storagetypes "imagecollector/storage/types"
)

// Observer is told about each URL as the run progresses
type Observer interface {
	Started(url string)
	Finished(result domain.Result)
}

// CollectorConfig holds the pipeline limits
type CollectorConfig struct {
	// StagingDir receives the temp files; it should share a filesystem with
	// the target when the filesystem adapter is used
	StagingDir  string
	MaxFileSize int64
}

// Collector runs the download, validate, hash, compare and commit pipeline
type Collector struct {
	fetcher domain.Fetcher
	storage storagetypes.ObjectStorage
	config  CollectorConfig
	logger  types.Logger
	metrics types.Metrics
}

// NewCollector creates a collector and makes sure the staging directory exists
func NewCollector(
	fetcher domain.Fetcher,
	storage storagetypes.ObjectStorage,
	config CollectorConfig,
	logger types.Logger,
	metrics types.Metrics,
) (*Collector, error) {
	if config.StagingDir == "" {
		config.StagingDir = os.TempDir()
	}
	if config.MaxFileSize <= 0 {
		return nil, fmt.Errorf("max file size must be positive, got %d", config.MaxFileSize)
	}
	if err := os.MkdirAll(config.StagingDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	return &Collector{
		fetcher: fetcher,
		storage: storage,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Run processes urls in order. Blank entries are skipped and a failing URL
// never stops the ones after it. Cancelling ctx stops before the next URL.
func (c *Collector) Run(ctx context.Context, urls []string, observer Observer) domain.Summary {
	summary := domain.Summary{RunID: uuid.NewString()}
	ctx = logger.WithRunID(ctx, summary.RunID)

	startTime := time.Now()
	c.logger.Info(ctx, "Collection run started", types.Fields{"urls": len(urls)})

	for _, raw := range urls {
		rawURL := strings.TrimSpace(raw)
		if rawURL == "" {
			continue
		}
		if ctx.Err() != nil {
			c.logger.Warn(ctx, "Collection run cancelled", types.Fields{"processed": summary.Total()})
			break
		}

		if observer != nil {
			observer.Started(rawURL)
		}
		result := c.Collect(ctx, rawURL)
		summary.Add(result)
		if observer != nil {
			observer.Finished(result)
		}
	}

	c.metrics.RecordDuration("run", time.Since(startTime).Seconds())
	c.logger.Info(ctx, "Collection run finished", types.Fields{
		"saved":       summary.Saved,
		"duplicates":  summary.Duplicates,
		"rejected":    summary.Rejected,
		"failed":      summary.Failed,
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	return summary
}

// Collect processes a single URL and never returns an error: failures are
// folded into the result
func (c *Collector) Collect(ctx context.Context, rawURL string) domain.Result {
	ctx = logger.WithURL(ctx, rawURL)
	c.metrics.StartOperation("collect")
	defer c.metrics.EndOperation("collect")
	startTime := time.Now()
	defer func() {
		c.metrics.RecordDuration("collect", time.Since(startTime).Seconds())
	}()

	download, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return c.fail(ctx, rawURL, err)
	}
	defer download.Close()

	staged, err := c.stage(ctx, download)
	if staged != nil {
		defer c.discard(ctx, staged)
	}
	if err != nil {
		return c.fail(ctx, rawURL, err)
	}
	download.Close()

	hash, err := util.HashFile(staged.path)
	if err != nil {
		return c.fail(ctx, rawURL, storageError("failed to hash staged file", err))
	}

	result := domain.Result{
		URL:         rawURL,
		Filename:    download.Filename,
		Hash:        hash,
		Size:        staged.size,
		ContentType: download.ContentType,
	}

	existing, err := c.findDuplicate(ctx, download.Filename, hash, staged.size)
	if err != nil {
		return c.fail(ctx, rawURL, err)
	}
	if existing != "" {
		result.Outcome = domain.OutcomeDuplicate
		result.DuplicateOf = existing
		result.Location = c.storage.Location(existing)
		c.metrics.RecordSkipped("collect", "duplicate")
		c.logger.Info(ctx, "Duplicate image discarded", types.Fields{
			"filename":     download.Filename,
			"duplicate_of": existing,
			"hash":         hash,
		})
		return result
	}

	// A same-named object with different content is overwritten
	replaced, err := c.storage.Exists(ctx, download.Filename)
	if err != nil {
		c.logger.Warn(ctx, "Could not check for an existing image", types.Fields{
			"filename": download.Filename,
			"error":    err.Error(),
		})
	}

	metadata := storagetypes.ObjectMetadata{
		ContentType:   download.ContentType,
		ContentLength: staged.size,
		UserMetadata: map[string]string{
			"source-url": rawURL,
			"sha256":     hash,
		},
	}
	if err := c.storage.PutFile(ctx, download.Filename, staged.path, metadata); err != nil {
		return c.fail(ctx, rawURL, storageError("failed to store image", err))
	}

	result.Outcome = domain.OutcomeSaved
	result.Location = c.storage.Location(download.Filename)
	result.Replaced = replaced

	c.metrics.RecordSuccess("collect")
	c.metrics.RecordFileSize(util.FileType(download.Filename), staged.size)
	c.logger.Info(ctx, "Image saved", types.Fields{
		"filename": download.Filename,
		"location": result.Location,
		"hash":     hash,
		"bytes":    staged.size,
		"replaced": replaced,
	})

	return result
}

func (c *Collector) fail(ctx context.Context, rawURL string, err error) domain.Result {
	result := domain.NewErrorResult(rawURL, err)

	if result.Outcome == domain.OutcomeRejected {
		c.metrics.RecordSkipped("collect", string(result.ErrorKind))
		c.logger.Warn(ctx, "Image rejected", types.Fields{
			"kind":   result.ErrorKind,
			"reason": err.Error(),
		})
	} else {
		c.metrics.RecordError("collect", string(result.ErrorKind))
		c.logger.Error(ctx, "Image collection failed", err, types.Fields{"kind": result.ErrorKind})
	}

	return result
}

func storageError(message string, err error) *domain.DomainError {
	return domain.NewDomainError(domain.KindStorage, domain.ErrStorageFailed.Code, message, err, true)
}
