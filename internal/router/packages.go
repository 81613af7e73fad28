package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shipping/internal/handler"
	"github.com/deppfellow/shipping/internal/model"
)

func registerPackageRoutes(r *echo.Echo, h *handler.Handlers) {
	packages := r.Group("/packages")
	ph := h.Package

	packages.GET("/:productId", handler.Handle(ph.Handler, ph.GetPackage, http.StatusOK,
		func() *model.GetPackageRequest { return &model.GetPackageRequest{} }))

	packages.POST("", handler.Handle(ph.Handler, ph.CreatePackage, http.StatusCreated,
		func() *model.CreatePackageRequest { return &model.CreatePackageRequest{} }))

	packages.PUT("/:id", handler.Handle(ph.Handler, ph.UpdatePackage, http.StatusOK,
		func() *model.UpdatePackageRequest { return &model.UpdatePackageRequest{} }))

	packages.DELETE("/:id", handler.HandleNoContent(ph.Handler, ph.DeletePackage, http.StatusNoContent,
		func() *model.DeletePackageRequest { return &model.DeletePackageRequest{} }))
}
