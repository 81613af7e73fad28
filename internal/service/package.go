package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/deppfellow/shipping/internal/database"
	"github.com/deppfellow/shipping/internal/errs"
	"github.com/deppfellow/shipping/internal/lib/discovery"
	"github.com/deppfellow/shipping/internal/model"
	"github.com/deppfellow/shipping/internal/repository"
)

const (
	opGetPackage    = "get_package"
	opCreatePackage = "create_package"
	opUpdatePackage = "update_package"
	opDeletePackage = "delete_package"

	MessageProductNotFound = "The product_id was not found"
	MessagePackageNotFound = "The package_id was not found"

	messageCreateFailed = "An internal error occurred while creating the package."
	messageUpdateFailed = "An internal error occurred while updating the package."
	messageDeleteFailed = "An internal error occurred while deleting the package."
)

// AppDetailsProvider reports this service's name and version. It must not fail.
type AppDetailsProvider interface {
	AppDetails(ctx context.Context) discovery.AppDetails
}

// PackageService runs the package lifecycle operations.
//
// Every operation acquires exactly one session and releases it on all exit
// paths. Mutations commit on success and roll back on any failure after the
// session was acquired. Store work ignores client cancellation.
type PackageService struct {
	sessions *database.SessionManager
	packages *repository.PackageRepository
	apps     AppDetailsProvider
	logger   *zerolog.Logger
}

func NewPackageService(
	sessions *database.SessionManager,
	packages *repository.PackageRepository,
	apps AppDetailsProvider,
	logger *zerolog.Logger,
) *PackageService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &PackageService{
		sessions: sessions,
		packages: packages,
		apps:     apps,
		logger:   logger,
	}
}

// GetByProductID returns the package stored for productID.
//
// A miss is a 404 enriched with the service's name and version.
func (s *PackageService) GetByProductID(ctx context.Context, productID int64) (*model.Package, error) {
	ctx = context.WithoutCancel(ctx)

	session, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, errs.NewStoreError(opGetPackage, productID, http.StatusText(http.StatusInternalServerError), err)
	}
	defer session.Release(ctx)

	pkg, err := s.packages.FindByProductID(ctx, session.Tx(), productID)
	if errors.Is(err, repository.ErrNotFound) {
		// The discovery call must not hold a pool connection.
		session.Release(ctx)
		return nil, s.productNotFound(ctx, productID)
	}
	if err != nil {
		return nil, errs.NewStoreError(opGetPackage, productID, http.StatusText(http.StatusInternalServerError), err)
	}

	return pkg, nil
}

func (s *PackageService) productNotFound(ctx context.Context, productID int64) error {
	details := discovery.Unknown()
	if s.apps != nil {
		details = s.apps.AppDetails(ctx)
	}

	return errs.NewNotFoundError(MessageProductNotFound, true, nil).WithDetails(map[string]any{
		"app_name":      details.Name,
		"version":       details.Version,
		"called_method": opGetPackage,
		"product_id":    productID,
	})
}

// Create stores a new package and returns its assigned id. The id is only
// returned once the commit succeeded.
func (s *PackageService) Create(ctx context.Context, fields model.NewPackageFields) (int64, error) {
	ctx = context.WithoutCancel(ctx)

	session, err := s.sessions.Acquire(ctx)
	if err != nil {
		return 0, errs.NewStoreError(opCreatePackage, fields.ProductID, messageCreateFailed, err)
	}
	defer session.Release(ctx)

	pkg, err := s.packages.Insert(ctx, session.Tx(), fields)
	if err != nil {
		return 0, s.abort(ctx, session, errs.NewStoreError(opCreatePackage, fields.ProductID, messageCreateFailed, err))
	}

	if err := session.Commit(ctx); err != nil {
		return 0, errs.NewStoreError(opCreatePackage, fields.ProductID, messageCreateFailed, err)
	}

	s.log(ctx).Info().
		Int64("package_id", pkg.ID).
		Int64("product_id", pkg.ProductID).
		Msg("package created")

	return pkg.ID, nil
}

// Update merges the supplied fields into package id and returns the result.
func (s *PackageService) Update(ctx context.Context, id int64, update model.PackageUpdate) (*model.Package, error) {
	ctx = context.WithoutCancel(ctx)

	session, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, errs.NewStoreError(opUpdatePackage, id, messageUpdateFailed, err)
	}
	defer session.Release(ctx)

	pkg, err := s.packages.FindByID(ctx, session.Tx(), id)
	if err != nil {
		return nil, s.abort(ctx, session, s.classify(opUpdatePackage, id, messageUpdateFailed, err))
	}

	if err := s.packages.ApplyPartialUpdate(ctx, session.Tx(), pkg, update); err != nil {
		return nil, s.abort(ctx, session, s.classify(opUpdatePackage, id, messageUpdateFailed, err))
	}

	if err := session.Commit(ctx); err != nil {
		return nil, errs.NewStoreError(opUpdatePackage, id, messageUpdateFailed, err)
	}

	return pkg, nil
}

// Delete removes package id.
func (s *PackageService) Delete(ctx context.Context, id int64) error {
	ctx = context.WithoutCancel(ctx)

	session, err := s.sessions.Acquire(ctx)
	if err != nil {
		return errs.NewStoreError(opDeletePackage, id, messageDeleteFailed, err)
	}
	defer session.Release(ctx)

	pkg, err := s.packages.FindByID(ctx, session.Tx(), id)
	if err != nil {
		return s.abort(ctx, session, s.classify(opDeletePackage, id, messageDeleteFailed, err))
	}

	if err := s.packages.Delete(ctx, session.Tx(), pkg); err != nil {
		return s.abort(ctx, session, s.classify(opDeletePackage, id, messageDeleteFailed, err))
	}

	if err := session.Commit(ctx); err != nil {
		return errs.NewStoreError(opDeletePackage, id, messageDeleteFailed, err)
	}

	s.log(ctx).Info().Int64("package_id", id).Msg("package deleted")

	return nil
}

// classify turns a repository miss into a 404 and anything else into a StoreError.
func (s *PackageService) classify(op string, id int64, message string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errs.NewNotFoundError(MessagePackageNotFound, true, nil)
	}
	return errs.NewStoreError(op, id, message, err)
}

// log prefers the request-scoped logger carried by ctx.
func (s *PackageService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

// abort rolls the session back and returns cause.
func (s *PackageService) abort(ctx context.Context, session *database.Session, cause error) error {
	if err := session.Rollback(ctx); err != nil {
		s.log(ctx).Error().Err(err).AnErr("cause", cause).Msg("rollback failed")
	}
	return cause
}
