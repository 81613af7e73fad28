package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shipping/internal/server"
	"github.com/deppfellow/shipping/static"
)

// OpenAPIHandler serves the API documentation UI. The page loads
// /static/openapi.json.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := static.FS.ReadFile("openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTMLBlob(http.StatusOK, page); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
