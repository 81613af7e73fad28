package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/shipping/internal/errs"
	"github.com/deppfellow/shipping/internal/server"
	"github.com/deppfellow/shipping/internal/sqlerr"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// echo HTTPErrorHandler.
type GlobalMiddlewares struct {
	server *server.Server
	now    func() time.Time
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
		now:    time.Now,
	}
}

// CORS allows the configured origins.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger emits one "API" line per request.
//
// When the handler returned an error the response is not written yet, so the
// status is taken from the error itself.
// See https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status
			if v.Error != nil {
				statusCode = classify(v.Error).Status
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns panics into errors handled by GlobalErrorHandler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure sets the standard security headers.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the single place where errors become responses.
//
// Store failures are logged with their operation, key and cause; the client
// only ever sees the generic message. Every body carries a timestamp.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	httpErr := classify(err)
	httpErr.Timestamp = unixSeconds(global.now())

	logger := GetLogger(c)

	var e *zerolog.Event
	if httpErr.Status >= http.StatusInternalServerError {
		e = logger.Error().Stack()
	} else {
		e = logger.Warn()
	}

	var storeErr *errs.StoreError
	if errors.As(err, &storeErr) {
		e = e.Str("store_operation", storeErr.Operation).Int64("entity_key", storeErr.Key)
	}

	e.Err(err).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	_ = c.JSON(httpErr.Status, httpErr)
}

// classify maps any error to the response it should produce. The returned
// value is always a fresh copy.
func classify(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		clone := *httpErr
		return &clone
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return errs.NewRouteNotFoundError()
		}

		message, ok := echoErr.Message.(string)
		if !ok {
			message = http.StatusText(echoErr.Code)
		}
		return &errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message: message,
			Status:  echoErr.Code,
		}
	}

	var storeErr *errs.StoreError
	if errors.As(err, &storeErr) {
		// A constraint violation is the client's fault even though the store raised it.
		if mapped := asHTTPError(sqlerr.HandleError(storeErr.Err)); mapped.Status == http.StatusBadRequest {
			return mapped
		}

		internal := errs.NewInternalServerError()
		if storeErr.Message != "" {
			internal = internal.WithMessage(storeErr.Message)
		}
		return internal
	}

	return asHTTPError(sqlerr.HandleError(err))
}

func asHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return errs.NewInternalServerError()
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
