package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shipping/internal/config"
	"github.com/deppfellow/shipping/internal/server"
)

const serviceVersion = "1.0"

// DiscoveryResponse describes the service to its callers.
type DiscoveryResponse struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Owners       []string `json:"owners"`
	Team         string   `json:"team"`
	Organization string   `json:"organization"`
}

// ProbeResponse is the body of the liveness and readiness probes.
type ProbeResponse struct {
	Status    string  `json:"status"`
	Code      int     `json:"code"`
	Timestamp float64 `json:"timestamp"`
}

// SystemHandler serves the discovery document and the orchestration probes.
type SystemHandler struct {
	Handler
	now func() time.Time
}

func NewSystemHandler(s *server.Server) *SystemHandler {
	return &SystemHandler{
		Handler: NewHandler(s),
		now:     time.Now,
	}
}

func (h *SystemHandler) Discovery(c echo.Context) error {
	return c.JSON(http.StatusOK, DiscoveryResponse{
		Name:         config.ServiceName,
		Version:      serviceVersion,
		Owners:       []string{"ameerabb", "lonestar"},
		Team:         "genAIs",
		Organization: "acme",
	})
}

// Liveness reports that the process is serving requests.
func (h *SystemHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, h.probe("live"))
}

// Readiness reports that the service accepts traffic. Dependency health is
// reported separately by /status.
func (h *SystemHandler) Readiness(c echo.Context) error {
	return c.JSON(http.StatusOK, h.probe("ready"))
}

func (h *SystemHandler) probe(status string) ProbeResponse {
	now := h.now()

	return ProbeResponse{
		Status:    status,
		Code:      http.StatusOK,
		Timestamp: float64(now.Unix()) + float64(now.Nanosecond())/float64(time.Second),
	}
}
