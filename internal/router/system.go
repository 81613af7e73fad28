package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shipping/internal/handler"
	"github.com/deppfellow/shipping/static"
)

// registerSystemRoutes registers endpoints that are not part of the package resource.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/discovery", h.System.Discovery)
	r.GET("/liveness", h.System.Liveness)
	r.GET("/readiness", h.System.Readiness)

	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.FS)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
