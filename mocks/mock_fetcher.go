package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"imagecollector/internal/domain"
)

// MockFetcher is a mock implementation of domain.Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (*domain.Download, error) {
	args := m.Called(ctx, url)

	var download *domain.Download
	if args.Get(0) != nil {
		download = args.Get(0).(*domain.Download)
	}

	return download, args.Error(1)
}
