package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"imagecollector/internal/domain"
	"imagecollector/observability/types"
	storagetypes "imagecollector/storage/types"
)

// stagedFile is a downloaded body written to the staging directory
type stagedFile struct {
	path string
	size int64
}

// discard deletes the staged file if it is still there. The filesystem
// adapter renames it away on commit.
func (c *Collector) discard(ctx context.Context, staged *stagedFile) {
	if err := os.Remove(staged.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn(ctx, "Failed to remove temp file", types.Fields{"path": staged.path, "reason": err.Error()})
	}
}

// readTracker remembers the first read error so network failures can be told
// apart from write failures after io.Copy returns
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

// stage streams the body to <name>.<uuid>.temp, reading at most one byte past
// the limit. The returned file is non-nil whenever something was created and
// must be removed by the caller.
func (c *Collector) stage(ctx context.Context, download *domain.Download) (*stagedFile, error) {
	name := fmt.Sprintf("%s.%s%s", download.Filename, uuid.NewString(), storagetypes.TempSuffix)
	path := filepath.Join(c.config.StagingDir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, storageError("failed to create temp file", err)
	}
	staged := &stagedFile{path: path}

	tracker := &readTracker{r: io.LimitReader(download.Body, c.config.MaxFileSize+1)}
	written, err := io.Copy(file, tracker)
	if cerr := file.Close(); err == nil && cerr != nil {
		return staged, storageError("failed to close temp file", cerr)
	}
	if err != nil {
		if tracker.err != nil {
			return staged, domain.NewDomainError(domain.KindConnection, domain.ErrConnection.Code,
				"failed to read response body", tracker.err, true)
		}
		return staged, storageError("failed to write temp file", err)
	}

	if written > c.config.MaxFileSize {
		c.logger.Warn(ctx, "Body exceeded size limit while streaming", types.Fields{
			"max_file_size":  c.config.MaxFileSize,
			"content_length": download.ContentLength,
		})
		return staged, domain.TooLarge(written, c.config.MaxFileSize)
	}

	staged.size = written
	c.logger.Debug(ctx, "Body staged", types.Fields{"path": path, "bytes": written})

	return staged, nil
}
