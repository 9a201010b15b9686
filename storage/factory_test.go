package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagecollector/config"
	obsmocks "imagecollector/observability/mocks"
	"imagecollector/storage/adapters/fs"
)

func TestNew_Filesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Fetched_Images")
	cfg := &config.StorageConfig{
		Provider: config.StorageFilesystem,
		Path:     dir,
		Timeout:  time.Second,
	}

	store, err := New(context.Background(), cfg, obsmocks.NewPermissiveLogger(), obsmocks.NewPermissiveMetrics())
	require.NoError(t, err)

	fsStore, ok := store.(*fs.Storage)
	require.True(t, ok)
	assert.Equal(t, dir, fsStore.BasePath())
	assert.DirExists(t, dir)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{
			name: "unknown provider",
			cfg:  config.StorageConfig{Provider: "ftp", Path: "x", Timeout: time.Second},
		},
		{
			name: "s3 without bucket",
			cfg:  config.StorageConfig{Provider: config.StorageS3, Timeout: time.Second},
		},
		{
			name: "filesystem without path",
			cfg:  config.StorageConfig{Provider: config.StorageFilesystem, Timeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(context.Background(), &tt.cfg, obsmocks.NewPermissiveLogger(), obsmocks.NewPermissiveMetrics())
			assert.Error(t, err)
			assert.Nil(t, store)
		})
	}
}
