package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	storagetypes "imagecollector/storage/types"
)

// MockStorage is a mock implementation of types.ObjectStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, reader io.Reader, metadata storagetypes.ObjectMetadata) error {
	args := m.Called(ctx, key, reader, metadata)
	return args.Error(0)
}

func (m *MockStorage) PutFile(ctx context.Context, key, path string, metadata storagetypes.ObjectMetadata) error {
	args := m.Called(ctx, key, path, metadata)
	return args.Error(0)
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, prefix string) ([]storagetypes.ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storagetypes.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Location(key string) string {
	args := m.Called(key)
	return args.String(0)
}
