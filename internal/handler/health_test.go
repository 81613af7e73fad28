package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shipping/internal/config"
	"github.com/deppfellow/shipping/internal/server"
)

func newHealthServer(t *testing.T, obs *config.ObservabilityConfig) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: obs,
		},
		Logger: &logger,
	}
}

func checkHealth(t *testing.T, h *HealthHandler) (int, map[string]any) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)

	require.NoError(t, h.CheckHealth(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestCheckHealth_DatabaseNotInitialized(t *testing.T) {
	h := NewHealthHandler(newHealthServer(t, nil))

	code, body := checkHealth(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "test", body["environment"])

	checks := body["checks"].(map[string]any)
	database := checks["database"].(map[string]any)
	assert.Equal(t, "unhealthy", database["status"])
	assert.Equal(t, "not initialized", database["error"])
}

func TestCheckHealth_RedisFailureIsNotCritical(t *testing.T) {
	obs := config.DefaultObservabilityConfig()
	obs.HealthChecks.Checks = []string{"redis"}
	obs.HealthChecks.Timeout = time.Second

	mr := miniredis.RunT(t)
	s := newHealthServer(t, obs)
	s.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.Redis.Close() })

	h := NewHealthHandler(s)

	code, body := checkHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["checks"].(map[string]any)["redis"].(map[string]any)["status"])

	mr.Close()

	code, body = checkHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "unhealthy", body["checks"].(map[string]any)["redis"].(map[string]any)["status"])
}

func TestCheckHealth_DisabledChecksAreSkipped(t *testing.T) {
	obs := config.DefaultObservabilityConfig()
	obs.HealthChecks.Enabled = false

	h := NewHealthHandler(newHealthServer(t, obs))

	code, body := checkHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["checks"])
}
