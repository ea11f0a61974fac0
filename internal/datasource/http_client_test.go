package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRetryOnServerError tests that transient failures are retried
func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxRetries = 3
	client := NewRateLimitedHTTPClient(cfg, nil)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

// TestNoRetryOnClientError tests that 4xx responses are returned as-is
func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxRetries = 3
	client := NewRateLimitedHTTPClient(cfg, nil)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// TestCircuitBreakerOpens tests that consecutive failures open the breaker
func TestCircuitBreakerOpens(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, nil)

	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), server.URL)
		require.Error(t, err)
	}
	assert.True(t, client.IsOpen())

	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// TestCircuitBreakerHalfOpen tests that a trial request after the reset timeout can close the breaker
func TestCircuitBreakerHalfOpen(t *testing.T) {
	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.CircuitBreakerMax = 1
	cfg.CircuitResetTimeout = 20 * time.Millisecond
	client := NewRateLimitedHTTPClient(cfg, nil)

	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	require.True(t, client.IsOpen())

	healthy.Store(true)
	time.Sleep(30 * time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, client.IsOpen())
}

// TestCanceledContext tests that a canceled context stops the request
func TestCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient(testHTTPConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, server.URL)
	assert.Error(t, err)
}

// TestDataSourceErrorUnwrap tests error wrapping behaviour
func TestDataSourceErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewDataSourceError("api_football", ErrCodeNetworkError, "request failed", inner)

	assert.True(t, errors.Is(err, inner))
	assert.True(t, IsCode(err, ErrCodeNetworkError))
	assert.False(t, IsCode(err, ErrCodeNotFound))
	assert.Equal(t, "api_football: network_error: request failed (connection reset)", err.Error())
	assert.False(t, IsCode(inner, ErrCodeNetworkError))
}
