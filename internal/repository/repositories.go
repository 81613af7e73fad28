package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no row matches the requested key.
var ErrNotFound = errors.New("record not found")

// Querier is the subset of pgx.Tx the repositories use.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repositories is a container for all repository instances.
type Repositories struct {
	Packages *PackageRepository
}

// NewRepositories constructs the repository container.
func NewRepositories() *Repositories {
	return &Repositories{
		Packages: NewPackageRepository(),
	}
}
