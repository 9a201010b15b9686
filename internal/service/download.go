package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"imagecollector/internal/domain"
	"imagecollector/internal/domain/util"
	"imagecollector/observability/types"
)

// DownloadService opens image URLs and applies the header checks
type DownloadService struct {
	httpClient      domain.HTTPClient
	maxFileSize     int64
	defaultFilename string
	logger          types.Logger
	metrics         types.Metrics
}

// NewDownloadService creates a new download service
func NewDownloadService(
	httpClient domain.HTTPClient,
	maxFileSize int64,
	defaultFilename string,
	logger types.Logger,
	metrics types.Metrics,
) *DownloadService {
	return &DownloadService{
		httpClient:      httpClient,
		maxFileSize:     maxFileSize,
		defaultFilename: defaultFilename,
		logger:          logger,
		metrics:         metrics,
	}
}

// Fetch requests rawURL and returns the open response when it announces an
// image no larger than the limit. The caller must close the returned body.
// Bodies without Content-Length are accepted here; the reader enforces the
// limit while streaming.
func (s *DownloadService) Fetch(ctx context.Context, rawURL string) (*domain.Download, error) {
	s.metrics.StartOperation("fetch")
	defer s.metrics.EndOperation("fetch")
	startTime := time.Now()
	defer func() {
		s.metrics.RecordDuration("fetch", time.Since(startTime).Seconds())
	}()

	if err := validateURL(rawURL); err != nil {
		s.metrics.RecordError("fetch", "invalid_url")
		s.logger.Warn(ctx, "Rejected URL", types.Fields{"reason": err.Error()})
		return nil, err
	}

	body, headers, err := s.httpClient.Download(ctx, rawURL, nil)
	if err != nil {
		s.metrics.RecordError("fetch", "connection")
		s.logger.Error(ctx, "Failed to download file", err, nil)
		return nil, ErrHTTPRequest(err)
	}

	contentType := util.ExtractContentType(headers)
	if !util.IsImageContentType(contentType) {
		body.Close()
		s.metrics.RecordSkipped("fetch", "not_image")
		s.logger.Warn(ctx, "Response is not an image", types.Fields{"content_type": contentType})
		return nil, domain.NotImage(contentType)
	}

	contentLength := int64(-1)
	if raw, ok := headers["Content-Length"]; ok && raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			body.Close()
			s.metrics.RecordError("fetch", "invalid_content_length")
			return nil, ErrInvalidContentLength(raw, err)
		}
		contentLength = n
	}

	if contentLength > s.maxFileSize {
		body.Close()
		s.metrics.RecordSkipped("fetch", "too_large")
		s.logger.Warn(ctx, "Announced size exceeds limit", types.Fields{
			"content_length": contentLength,
			"max_file_size":  s.maxFileSize,
		})
		return nil, domain.TooLarge(contentLength, s.maxFileSize)
	}

	download := &domain.Download{
		URL:           rawURL,
		Filename:      util.DeriveFilename(rawURL, contentType, s.defaultFilename),
		ContentType:   contentType,
		ContentLength: contentLength,
		Body:          body,
	}

	s.metrics.RecordSuccess("fetch")
	s.logger.Debug(ctx, "Download accepted", types.Fields{
		"filename":       download.Filename,
		"content_type":   contentType,
		"content_length": contentLength,
	})

	return download, nil
}

// validateURL only allows absolute HTTP and HTTPS URLs
func validateURL(rawURL string) error {
	if rawURL == "" {
		return ErrInvalidURL("URL is empty", nil)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ErrInvalidURL("Failed to parse URL", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL("Only HTTP and HTTPS URLs are supported", nil)
	}
	if u.Host == "" {
		return ErrInvalidURL("URL has no host", nil)
	}

	return nil
}
