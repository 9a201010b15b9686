package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "yes", r.Header.Get("X-Custom"))
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Timeout: time.Second, UserAgent: "test-agent"})

	body, headers, err := client.Download(context.Background(), server.URL+"/cat.png", map[string]string{"X-Custom": "yes"})
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", headers["Content-Type"])
	assert.Equal(t, "9", headers["Content-Length"])
}

func TestClient_DownloadNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())

	body, _, err := client.Download(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Nil(t, body)

	se, ok := IsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/gif")
		w.Write([]byte("gif"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Timeout: time.Second, MaxRetries: 1, RetryBackoff: time.Millisecond})

	body, _, err := client.Download(context.Background(), server.URL, nil)
	require.NoError(t, err)
	body.Close()
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())

	_, _, err := client.Download(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Timeout: 50 * time.Millisecond})

	_, _, err := client.Download(context.Background(), server.URL, nil)
	assert.Error(t, err)
}

func TestClient_InvalidURL(t *testing.T) {
	client := NewClient(DefaultConfig())

	_, _, err := client.Download(context.Background(), "http://[::1", nil)
	assert.ErrorContains(t, err, "failed to create request")
}
