package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"imagecollector/observability/types"
	storagetypes "imagecollector/storage/types"
)

// Storage implements ObjectStorage on a single local directory
type Storage struct {
	basePath string
	logger   types.Logger
	metrics  types.Metrics
}

// NewStorage creates a filesystem storage rooted at basePath, creating the directory if needed
func NewStorage(basePath string, logger types.Logger, metrics types.Metrics) (*Storage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		logger.Error(context.Background(), "Failed to create base path", err, types.Fields{"path": basePath})
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	logger.Debug(context.Background(), "Filesystem storage initialized", types.Fields{"base_path": basePath})

	return &Storage{
		basePath: basePath,
		logger:   logger.WithFields(types.Fields{"storage": "filesystem"}),
		metrics:  metrics,
	}, nil
}

// BasePath returns the directory objects are stored in
func (s *Storage) BasePath() string {
	return s.basePath
}

// Put writes the reader to a sibling temp file and renames it into place,
// so readers never observe a partially written object
func (s *Storage) Put(ctx context.Context, key string, reader io.Reader, metadata storagetypes.ObjectMetadata) error {
	startTime := time.Now()

	objectPath, err := s.getObjectPath(key)
	if err != nil {
		s.metrics.RecordError("put", "invalid_key")
		return err
	}

	tmpPath := fmt.Sprintf("%s.%s%s", objectPath, uuid.NewString(), storagetypes.TempSuffix)
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		s.metrics.RecordError("put", "create")
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmpPath)

	bytesWritten, err := io.Copy(file, reader)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to write data", err, types.Fields{"key": key})
		s.metrics.RecordError("put", "write")
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := os.Rename(tmpPath, objectPath); err != nil {
		s.metrics.RecordError("put", "rename")
		return fmt.Errorf("failed to commit object: %w", err)
	}

	s.logger.Debug(ctx, "Object stored successfully", types.Fields{
		"key":          key,
		"bytes":        bytesWritten,
		"content_type": metadata.ContentType,
		"duration_ms":  time.Since(startTime).Milliseconds(),
	})
	s.metrics.RecordSuccess("put")
	s.metrics.RecordDuration("put", time.Since(startTime).Seconds())

	return nil
}

// PutFile renames a staged file into place. When the rename cannot be done
// (e.g. staging lives on another device) the content is copied through Put.
func (s *Storage) PutFile(ctx context.Context, key, path string, metadata storagetypes.ObjectMetadata) error {
	startTime := time.Now()

	objectPath, err := s.getObjectPath(key)
	if err != nil {
		s.metrics.RecordError("put_file", "invalid_key")
		return err
	}

	err = os.Rename(path, objectPath)
	if err == nil {
		s.logger.Debug(ctx, "Staged file committed", types.Fields{
			"key":         key,
			"duration_ms": time.Since(startTime).Milliseconds(),
		})
		s.metrics.RecordSuccess("put_file")
		s.metrics.RecordDuration("put_file", time.Since(startTime).Seconds())
		return nil
	}
	s.logger.Debug(ctx, "Rename failed, copying staged file", types.Fields{"key": key, "reason": err.Error()})

	file, err := os.Open(path)
	if err != nil {
		s.metrics.RecordError("put_file", "open")
		return fmt.Errorf("failed to open staged file: %w", err)
	}
	defer file.Close()

	if err := s.Put(ctx, key, file, metadata); err != nil {
		s.metrics.RecordError("put_file", "copy")
		return err
	}

	s.metrics.RecordSuccess("put_file")
	return nil
}

// Get retrieves an object
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	objectPath, err := s.getObjectPath(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(objectPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.metrics.RecordError("get", "not_found")
			return nil, fmt.Errorf("%w: %s", storagetypes.ErrObjectNotFound, key)
		}
		s.logger.Error(ctx, "Failed to open file", err, types.Fields{"path": objectPath})
		s.metrics.RecordError("get", "open")
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	s.metrics.RecordSuccess("get")
	return file, nil
}

// Exists checks if an object exists
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	objectPath, err := s.getObjectPath(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(objectPath)
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}

	s.logger.Error(ctx, "Failed to check object existence", err, types.Fields{"key": key})
	return false, err
}

// List returns the regular files directly inside the base directory.
// Subdirectories and staged temp files are skipped.
func (s *Storage) List(ctx context.Context, prefix string) ([]storagetypes.ObjectInfo, error) {
	startTime := time.Now()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		s.logger.Error(ctx, "Failed to list objects", err, types.Fields{"path": s.basePath})
		s.metrics.RecordError("list", "read_dir")
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	objects := make([]storagetypes.ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasSuffix(name, storagetypes.TempSuffix) {
			continue
		}
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}

		objects = append(objects, storagetypes.ObjectInfo{
			Key:          name,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}

	s.logger.Debug(ctx, "Listed objects", types.Fields{
		"prefix":      prefix,
		"count":       len(objects),
		"duration_ms": time.Since(startTime).Milliseconds(),
	})
	s.metrics.RecordSuccess("list")
	s.metrics.RecordDuration("list", time.Since(startTime).Seconds())

	return objects, nil
}

// Location returns the file path an object is stored at
func (s *Storage) Location(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

func (s *Storage) getObjectPath(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", storagetypes.ErrInvalidKey, key)
	}
	return filepath.Join(s.basePath, key), nil
}
