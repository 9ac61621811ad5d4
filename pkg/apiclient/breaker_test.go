package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rankwise/dashboard/pkg/credstore"
)

func newBreakerClient(t *testing.T, baseURL string) (*Client, *BreakerConfig) {
	t.Helper()
	cfg := BreakerConfig{
		Name:         t.Name(),
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
	client := New(Config{
		BaseURL:     baseURL,
		Credentials: credstore.NewMemory(nil),
		Timeout:     2 * time.Second,
		Breaker:     &cfg,
		Logger:      discardLogger(),
	})
	return client, &cfg
}

func TestBreakerPassesServerErrorThrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Upstream exploded", "code": "UPSTREAM"})
	}))
	defer srv.Close()

	client, _ := newBreakerClient(t, srv.URL)
	_, err := client.ListSites(context.Background(), ListOptions{})

	// Below the trip threshold the caller sees the real 5xx, not the breaker.
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "Upstream exploded", apiErr.Message)
}

func TestBreakerOpensOnSustainedFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, cfg := newBreakerClient(t, srv.URL)
	ctx := context.Background()

	for i := uint32(0); i < cfg.MinRequests; i++ {
		_, err := client.ListSites(ctx, ListOptions{})
		require.Error(t, err)
	}
	tripped := hits.Load()

	// The breaker is open now: no request reaches the upstream.
	_, err := client.ListSites(ctx, ListOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	require.Equal(t, "CIRCUIT_OPEN", apiErr.Code)
	require.Equal(t, tripped, hits.Load())
}

func TestBreakerIgnoresAuthFailures(t *testing.T) {
	t.Parallel()

	// 401s are the refresh stage's business and must not trip the breaker.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, cfg := newBreakerClient(t, srv.URL)
	ctx := context.Background()

	for i := uint32(0); i < cfg.MinRequests+2; i++ {
		_, err := client.ListSites(ctx, ListOptions{})
		// Still the refresh path's error every time; the breaker never opens.
		require.ErrorIs(t, err, ErrSessionExpired)
	}
}
