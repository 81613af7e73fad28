package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shipping/internal/model"
	"github.com/deppfellow/shipping/internal/server"
	"github.com/deppfellow/shipping/internal/service"
)

// PackageHandler serves the /packages resource.
type PackageHandler struct {
	Handler
	packages *service.PackageService
}

func NewPackageHandler(s *server.Server, packages *service.PackageService) *PackageHandler {
	return &PackageHandler{
		Handler:  NewHandler(s),
		packages: packages,
	}
}

// GetPackage returns the package of a product. The body omits id and product_id.
func (h *PackageHandler) GetPackage(c echo.Context, req *model.GetPackageRequest) (*model.Package, error) {
	return h.packages.GetByProductID(c.Request().Context(), req.ProductID)
}

func (h *PackageHandler) CreatePackage(c echo.Context, req *model.CreatePackageRequest) (*model.CreatePackageResponse, error) {
	id, err := h.packages.Create(c.Request().Context(), req.Fields())
	if err != nil {
		return nil, err
	}

	return &model.CreatePackageResponse{PackageID: id}, nil
}

// UpdatePackage returns the full field set after the merge.
func (h *PackageHandler) UpdatePackage(c echo.Context, req *model.UpdatePackageRequest) (*model.Package, error) {
	return h.packages.Update(c.Request().Context(), req.ID, req.Update())
}

func (h *PackageHandler) DeletePackage(c echo.Context, req *model.DeletePackageRequest) error {
	return h.packages.Delete(c.Request().Context(), req.ID)
}
