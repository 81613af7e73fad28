package handler

import (
	"github.com/deppfellow/shipping/internal/server"
	"github.com/deppfellow/shipping/internal/service"
)

// Handlers groups every HTTP handler so router setup receives one value.
type Handlers struct {
	Package *PackageHandler
	System  *SystemHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Package: NewPackageHandler(s, services.Packages),
		System:  NewSystemHandler(s),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
