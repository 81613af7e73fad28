// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as request
// IDs, request-scoped logging, New Relic tracing, CORS, panic recovery and
// the final translation of errors into HTTP responses.
package middleware
