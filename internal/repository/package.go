package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/shipping/internal/model"
)

const packageColumns = "id, product_id, height, width, depth, weight, special_handling_instructions"

const (
	findPackageByProductIDQuery = `SELECT ` + packageColumns + `
	FROM packages
	WHERE product_id = $1
	ORDER BY id
	LIMIT 1`

	// Only mutations look packages up by id, so the row is locked until the
	// session is finalized.
	findPackageByIDQuery = `SELECT ` + packageColumns + `
	FROM packages
	WHERE id = $1
	FOR UPDATE`

	insertPackageQuery = `INSERT INTO packages
	(product_id, height, width, depth, weight, special_handling_instructions)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id`

	updatePackageQuery = `UPDATE packages
	SET height = $2, width = $3, depth = $4, weight = $5, special_handling_instructions = $6
	WHERE id = $1`

	deletePackageQuery = `DELETE FROM packages WHERE id = $1`
)

// PackageRepository runs Package queries inside a caller-owned session.
type PackageRepository struct{}

// NewPackageRepository constructs a PackageRepository.
func NewPackageRepository() *PackageRepository {
	return &PackageRepository{}
}

// FindByProductID returns the first package stored for productID.
func (r *PackageRepository) FindByProductID(ctx context.Context, q Querier, productID int64) (*model.Package, error) {
	pkg, err := scanPackage(q.QueryRow(ctx, findPackageByProductIDQuery, productID))
	if err != nil {
		return nil, fmt.Errorf("find package by product_id %d: %w", productID, err)
	}
	return pkg, nil
}

// FindByID returns the package with the given store id, locking its row.
func (r *PackageRepository) FindByID(ctx context.Context, q Querier, id int64) (*model.Package, error) {
	pkg, err := scanPackage(q.QueryRow(ctx, findPackageByIDQuery, id))
	if err != nil {
		return nil, fmt.Errorf("find package by id %d: %w", id, err)
	}
	return pkg, nil
}

// Insert stores a new package and returns it with its assigned id.
// The row only becomes visible once the caller commits.
func (r *PackageRepository) Insert(ctx context.Context, q Querier, fields model.NewPackageFields) (*model.Package, error) {
	pkg := &model.Package{
		ProductID:                   fields.ProductID,
		Height:                      fields.Height,
		Width:                       fields.Width,
		Depth:                       fields.Depth,
		Weight:                      fields.Weight,
		SpecialHandlingInstructions: fields.SpecialHandlingInstructions,
	}

	err := q.QueryRow(ctx, insertPackageQuery,
		pkg.ProductID,
		pkg.Height,
		pkg.Width,
		pkg.Depth,
		pkg.Weight,
		pkg.SpecialHandlingInstructions,
	).Scan(&pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("insert package for product_id %d: %w", fields.ProductID, err)
	}

	return pkg, nil
}

// ApplyPartialUpdate merges the supplied fields into pkg and writes the row.
// Fields absent from update keep their current value; ProductID is never written.
func (r *PackageRepository) ApplyPartialUpdate(ctx context.Context, q Querier, pkg *model.Package, update model.PackageUpdate) error {
	update.Apply(pkg)

	tag, err := q.Exec(ctx, updatePackageQuery,
		pkg.ID,
		pkg.Height,
		pkg.Width,
		pkg.Depth,
		pkg.Weight,
		pkg.SpecialHandlingInstructions,
	)
	if err != nil {
		return fmt.Errorf("update package %d: %w", pkg.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update package %d: %w", pkg.ID, ErrNotFound)
	}

	return nil
}

// Delete removes pkg. The removal takes effect when the caller commits.
func (r *PackageRepository) Delete(ctx context.Context, q Querier, pkg *model.Package) error {
	tag, err := q.Exec(ctx, deletePackageQuery, pkg.ID)
	if err != nil {
		return fmt.Errorf("delete package %d: %w", pkg.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete package %d: %w", pkg.ID, ErrNotFound)
	}

	return nil
}

func scanPackage(row pgx.Row) (*model.Package, error) {
	var pkg model.Package

	err := row.Scan(
		&pkg.ID,
		&pkg.ProductID,
		&pkg.Height,
		&pkg.Width,
		&pkg.Depth,
		&pkg.Weight,
		&pkg.SpecialHandlingInstructions,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &pkg, nil
}
