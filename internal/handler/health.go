package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shipping/internal/config"
	"github.com/deppfellow/shipping/internal/middleware"
	"github.com/deppfellow/shipping/internal/server"
)

var errNotInitialized = errors.New("not initialized")

// HealthHandler reports whether the service's dependencies are reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type dependencyCheck struct {
	name string

	// critical checks turn the overall status unhealthy when they fail.
	// Redis only backs the discovery cache, so it is not critical.
	critical bool

	ping func(ctx context.Context) error
}

func (h *HealthHandler) dependencyChecks() []dependencyCheck {
	var checks []dependencyCheck

	checks = append(checks, dependencyCheck{
		name:     "database",
		critical: true,
		ping: func(ctx context.Context) error {
			if h.server.DB == nil || h.server.DB.Pool == nil {
				return errNotInitialized
			}
			return h.server.DB.Ping(ctx)
		},
	})

	if h.server.Redis != nil {
		checks = append(checks, dependencyCheck{
			name: "redis",
			ping: func(ctx context.Context) error {
				return h.server.Redis.Ping(ctx).Err()
			},
		})
	}

	return checks
}

func (h *HealthHandler) observability() *config.ObservabilityConfig {
	if h.server.Config != nil && h.server.Config.Observability != nil {
		return h.server.Config.Observability
	}
	return config.DefaultObservabilityConfig()
}

// CheckHealth pings each enabled dependency and returns 200 when every
// critical one answers, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	obs := h.observability()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any)
	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	}
	if h.server.Config != nil {
		response["environment"] = h.server.Config.Primary.Env
	}

	isHealthy := true

	for _, check := range h.dependencyChecks() {
		if !obs.CheckEnabled(check.name) {
			continue
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), obs.HealthChecks.Timeout)
		checkStart := time.Now()
		err := check.ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		if err != nil {
			checks[check.name] = map[string]any{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}
			if check.critical {
				isHealthy = false
			}

			logger.Error().
				Err(err).
				Str("check", check.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.recordFailure(check.name, elapsed, err)
			continue
		}

		checks[check.name] = map[string]any{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}

		logger.Debug().
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("health check passed")
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) recordFailure(check string, elapsed time.Duration, err error) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       check,
		"operation":        "health_check",
		"error_type":       check + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
