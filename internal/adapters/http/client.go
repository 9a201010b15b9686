package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ClientConfig holds HTTP client configuration
type ClientConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	UserAgent    string
}

// DefaultConfig returns default HTTP client configuration
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Timeout:      10 * time.Second,
		MaxRetries:   0,
		RetryBackoff: time.Second,
		UserAgent:    "image-collector/1.0",
	}
}

// StatusError is returned for responses outside the 2xx range
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client implements the HTTPClient port
type Client struct {
	client *http.Client
	config ClientConfig
}

// NewClient creates a new HTTP client. Timeout bounds the whole request,
// including reading the body.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "image-collector/1.0"
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = time.Second
	}

	return &Client{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// Download implements the HTTPClient interface. Network errors and 5xx
// responses are retried up to MaxRetries times with linear backoff.
func (c *Client) Download(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.config.RetryBackoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			}
		}

		resp, lastErr = c.client.Do(req)
		if lastErr != nil {
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if resp.StatusCode < 500 || attempt == c.config.MaxRetries {
			break
		}
		resp.Body.Close()
	}

	if lastErr != nil {
		if c.config.MaxRetries > 0 {
			return nil, nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
		}
		return nil, nil, lastErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, nil, &StatusError{StatusCode: resp.StatusCode}
	}

	responseHeaders := make(map[string]string, len(resp.Header)+1)
	for key := range resp.Header {
		responseHeaders[key] = resp.Header.Get(key)
	}
	if resp.ContentLength >= 0 {
		responseHeaders["Content-Length"] = strconv.FormatInt(resp.ContentLength, 10)
	} else {
		delete(responseHeaders, "Content-Length")
	}

	return resp.Body, responseHeaders, nil
}

// IsStatusError reports whether err carries an HTTP status failure
func IsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
