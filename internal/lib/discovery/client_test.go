package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shipping/internal/config"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return client, mr
}

func discoveryServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(url string) config.DiscoveryConfig {
	return config.DiscoveryConfig{URL: url, Timeout: time.Second, CacheTTL: time.Minute}
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestClient_AppDetails(t *testing.T) {
	srv := discoveryServer(t, http.StatusOK, `{"name":"X","version":"1","team":"genAIs"}`, nil)

	details := NewClient(testConfig(srv.URL), nil).AppDetails(context.Background())

	assert.Equal(t, AppDetails{Name: "X", Version: "1"}, details)
}

func TestClient_AppDetails_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   AppDetails
	}{
		{"server error", http.StatusInternalServerError, `{"name":"X","version":"1"}`, Unknown()},
		{"malformed body", http.StatusOK, `not json`, Unknown()},
		{"missing version", http.StatusOK, `{"name":"X"}`, AppDetails{Name: "X", Version: UnknownVersion}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := discoveryServer(t, tt.status, tt.body, nil)

			details := NewClient(testConfig(srv.URL), nil).AppDetails(context.Background())
			assert.Equal(t, tt.want, details)
		})
	}
}

func TestClient_AppDetails_NetworkError(t *testing.T) {
	client := NewClient(testConfig("http://discovery.invalid"), nil, WithHTTPClient(failingDoer{}))

	assert.Equal(t, Unknown(), client.AppDetails(context.Background()))
}

func TestClient_AppDetails_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond

	start := time.Now()
	details := NewClient(cfg, nil).AppDetails(context.Background())

	assert.Equal(t, Unknown(), details)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_AppDetails_UsesCache(t *testing.T) {
	rdb, mr := setupTestRedis(t)

	var hits atomic.Int32
	srv := discoveryServer(t, http.StatusOK, `{"name":"shipping","version":"1.0"}`, &hits)

	client := NewClient(testConfig(srv.URL), nil, WithCache(rdb))

	first := client.AppDetails(context.Background())
	second := client.AppDetails(context.Background())

	assert.Equal(t, AppDetails{Name: "shipping", Version: "1.0"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
	assert.True(t, mr.Exists(cacheKey))

	mr.FastForward(2 * time.Minute)
	client.AppDetails(context.Background())
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_AppDetails_DoesNotCacheFallback(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	srv := discoveryServer(t, http.StatusServiceUnavailable, ``, nil)

	client := NewClient(testConfig(srv.URL), nil, WithCache(rdb))

	assert.Equal(t, Unknown(), client.AppDetails(context.Background()))
	assert.False(t, mr.Exists(cacheKey))
}

func TestClient_AppDetails_DoesNotCacheIncompletePayload(t *testing.T) {
	rdb, mr := setupTestRedis(t)

	var hits atomic.Int32
	srv := discoveryServer(t, http.StatusOK, `{"name":"shipping"}`, &hits)

	client := NewClient(testConfig(srv.URL), nil, WithCache(rdb))

	first := client.AppDetails(context.Background())
	assert.Equal(t, AppDetails{Name: "shipping", Version: UnknownVersion}, first)
	assert.False(t, mr.Exists(cacheKey))

	client.AppDetails(context.Background())
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_AppDetails_CacheUnavailable(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	mr.Close()

	srv := discoveryServer(t, http.StatusOK, `{"name":"shipping","version":"1.0"}`, nil)
	client := NewClient(testConfig(srv.URL), nil, WithCache(rdb))

	assert.Equal(t, AppDetails{Name: "shipping", Version: "1.0"}, client.AppDetails(context.Background()))
}
