package types

import (
	"context"
	"errors"
	"io"
	"time"
)

// Common storage errors
var (
	// ErrObjectNotFound is returned when an object is not found in storage
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidKey is returned for keys that would escape the storage root
	ErrInvalidKey = errors.New("invalid object key")
)

// TempSuffix marks staged files. Adapters never list keys with this suffix.
const TempSuffix = ".temp"

// ObjectMetadata represents metadata associated with stored objects
type ObjectMetadata struct {
	ContentType   string
	ContentLength int64
	UserMetadata  map[string]string
}

// ObjectInfo represents information about a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage defines the interface for the collection target.
// Keys are flat object names (the image filenames); the adapter decides
// whether they live in a directory or under a bucket prefix.
type ObjectStorage interface {
	// Put stores the reader's content under key, replacing any existing object
	Put(ctx context.Context, key string, reader io.Reader, metadata ObjectMetadata) error

	// PutFile commits a staged local file under key. The filesystem adapter
	// renames it into place; remote adapters upload it. The caller still owns
	// removing path if it remains afterwards.
	PutFile(ctx context.Context, key, path string, metadata ObjectMetadata) error

	// Get retrieves an object by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)

	// List returns the objects whose key starts with prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Location returns a human-readable location for key, such as a file path or s3:// URI
	Location(key string) string
}
