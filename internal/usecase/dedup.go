package usecase

import (
	"context"
	"errors"

	"imagecollector/internal/domain/util"
	"imagecollector/observability/types"
	storagetypes "imagecollector/storage/types"
)

// findDuplicate returns the key of an existing object whose content hash
// equals hash, or "" when there is none. The object named like the new file is
// excluded, and objects of a different size are never read.
func (c *Collector) findDuplicate(ctx context.Context, name, hash string, size int64) (string, error) {
	objects, err := c.storage.List(ctx, "")
	if err != nil {
		return "", storageError("failed to list target", err)
	}

	compared := 0
	for _, obj := range objects {
		if obj.Key == name || obj.Size != size {
			continue
		}

		existing, err := c.hashObject(ctx, obj.Key)
		if err != nil {
			if errors.Is(err, storagetypes.ErrObjectNotFound) {
				// Removed since the listing
				continue
			}
			return "", storageError("failed to read existing object", err)
		}
		compared++

		if existing == hash {
			return obj.Key, nil
		}
	}

	c.logger.Debug(ctx, "No duplicate found", types.Fields{
		"objects":  len(objects),
		"compared": compared,
	})

	return "", nil
}

func (c *Collector) hashObject(ctx context.Context, key string) (string, error) {
	rc, err := c.storage.Get(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return util.HashReader(rc)
}
