package middleware

import (
	"github.com/deppfellow/shipping/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups every middleware component so the router receives one value.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers and the
	// global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer attaches the request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing wires New Relic transactions; it is a no-op without a license key.
	Tracing *TracingMiddleware
}

// NewMiddlewares constructs all middleware components from the application container.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
	}
}
