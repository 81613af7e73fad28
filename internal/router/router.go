// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps every route to its handler.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shipping/internal/handler"
	"github.com/deppfellow/shipping/internal/middleware"
	"github.com/deppfellow/shipping/internal/server"
)

// NewRouter builds the echo instance.
//
// Middleware order matters: the request ID feeds tracing and the context
// logger, the context logger feeds the request logger, and Recover sits
// innermost so recovered panics are still logged.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerPackageRoutes(router, h)

	return router
}
