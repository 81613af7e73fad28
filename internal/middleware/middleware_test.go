package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shipping/internal/config"
	"github.com/deppfellow/shipping/internal/errs"
	"github.com/deppfellow/shipping/internal/server"
)

func newTestEcho(t *testing.T, logs *bytes.Buffer) *echo.Echo {
	t.Helper()

	logger := zerolog.New(logs)
	s := &server.Server{
		Config: &config.Config{},
		Logger: &logger,
	}

	global := NewGlobalMiddlewares(s)
	global.now = func() time.Time { return time.Unix(1700000000, 500000000) }

	e := echo.New()
	e.HTTPErrorHandler = global.GlobalErrorHandler
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext(), global.Recover())

	return e
}

func serve(e *echo.Echo, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestGlobalErrorHandler_StoreErrorIsGenericized(t *testing.T) {
	var logs bytes.Buffer
	e := newTestEcho(t, &logs)
	e.POST("/packages", func(c echo.Context) error {
		return errs.NewStoreError("create_package", 200, "An internal error occurred while creating the package.",
			errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	})

	rec, body := serve(e, http.MethodPost, "/packages")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An internal error occurred while creating the package.", body["message"])
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.EqualValues(t, 1700000000.5, body["timestamp"])

	assert.Contains(t, logs.String(), "connection refused")
	assert.Contains(t, logs.String(), `"store_operation":"create_package"`)
	assert.Contains(t, logs.String(), `"entity_key":200`)
}

func TestGlobalErrorHandler_ConstraintViolationIsClientError(t *testing.T) {
	var logs bytes.Buffer
	e := newTestEcho(t, &logs)
	e.POST("/packages", func(c echo.Context) error {
		pgErr := &pgconn.PgError{Code: "23514", TableName: "packages", ColumnName: "height"}
		return errs.NewStoreError("create_package", 1, "An internal error occurred while creating the package.",
			fmt.Errorf("insert package: %w", pgErr))
	})

	rec, body := serve(e, http.MethodPost, "/packages")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PACKAGE_INVALID", body["code"])
}

func TestGlobalErrorHandler_NotFoundDetails(t *testing.T) {
	var logs bytes.Buffer
	e := newTestEcho(t, &logs)
	e.GET("/packages/:productId", func(c echo.Context) error {
		return errs.NewNotFoundError("The product_id was not found", true, nil).WithDetails(map[string]any{
			"app_name": "X",
			"version":  "1",
		})
	})

	rec, body := serve(e, http.MethodGet, "/packages/999")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "The product_id was not found", body["message"])
	assert.Equal(t, "X", body["app_name"])
	assert.Equal(t, "1", body["version"])
	assert.Contains(t, body, "timestamp")
}

func TestGlobalErrorHandler_UnknownRoute(t *testing.T) {
	var logs bytes.Buffer
	e := newTestEcho(t, &logs)

	rec, body := serve(e, http.MethodGet, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.MessageRouteNotFound, body["message"])
}

func TestGlobalErrorHandler_UnknownErrorIsInternal(t *testing.T) {
	var logs bytes.Buffer
	e := newTestEcho(t, &logs)
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("something odd")
	})

	rec, body := serve(e, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", body["message"])
}

func TestGlobalErrorHandler_Panic(t *testing.T) {
	var logs bytes.Buffer
	e := newTestEcho(t, &logs)
	e.GET("/panic", func(c echo.Context) error {
		panic("unexpected")
	})

	rec, _ := serve(e, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestID(t *testing.T) {
	var logs bytes.Buffer
	e := newTestEcho(t, &logs)
	e.GET("/id", func(c echo.Context) error {
		GetLogger(c).Info().Msg("inside")
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec, _ := serve(e, http.MethodGet, "/id")
	generated := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())
	assert.Contains(t, logs.String(), `"request_id":"`+generated+`"`)

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestContextEnhancer_StoresLoggerInRequestContext(t *testing.T) {
	var logs bytes.Buffer
	e := newTestEcho(t, &logs)
	e.GET("/ctx", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from context")
		return c.NoContent(http.StatusNoContent)
	})

	rec, _ := serve(e, http.MethodGet, "/ctx")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, logs.String(), `"path":"/ctx"`)
	assert.Contains(t, logs.String(), "from context")
}

func TestGetLogger_WithoutEnhancer(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotNil(t, GetLogger(c))
}
