package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shipping/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "packages",
		ConstraintName: "packages_product_id_key",
	}

	httpErr := asHTTPError(t, HandleError(fmt.Errorf("insert package: %w", pgErr)))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PACKAGE_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Package with this Product Id already exists", httpErr.Message)
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	tests := []struct {
		table      string
		constraint string
		want       string
	}{
		{"packages", "packages_product_id_key", "product_id"},
		{"packages", "packages_product_key", "product"},
		{"packages", "packages_product_id_ukey", "product_id"},
		{"packages", "unique_packages_product_id", "product_id"},
		{"", "packages_product_id_key", "product_id"},
		{"packages", "packages_pkey", ""},
		{"packages", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			assert.Equal(t, tt.want, extractColumnForUniqueViolation(tt.table, tt.constraint))
		})
	}
}

func TestHandleError_NotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23502", TableName: "packages", ColumnName: "height"}

	httpErr := asHTTPError(t, HandleError(pgErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PACKAGE_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Height is required", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "height", httpErr.Errors[0].Field)
}

func TestHandleError_CheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", TableName: "packages", ColumnName: "weight"}

	httpErr := asHTTPError(t, HandleError(pgErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PACKAGE_INVALID", httpErr.Code)
}

func TestHandleError_UnknownPgErrorIsInternal(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}

	httpErr := asHTTPError(t, HandleError(pgErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.NotContains(t, httpErr.Message, "deadlock")
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewNotFoundError("The product_id was not found", true, nil)

	assert.Same(t, original, HandleError(fmt.Errorf("wrapped: %w", original)))
}

func TestHandleError_NoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHandleError_Fallback(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("connection refused")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
}

func TestMapCode(t *testing.T) {
	tests := map[string]Code{
		"23505": UniqueViolation,
		"23503": ForeignKeyViolation,
		"23502": NotNullViolation,
		"23514": CheckViolation,
		"22003": NumericOutOfRange,
		"08006": ConnectionFailure,
		"XX000": Other,
	}

	for state, want := range tests {
		t.Run(state, func(t *testing.T) {
			assert.Equal(t, want, MapCode(state))
		})
	}
}

func TestErrCode(t *testing.T) {
	sqlErr := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR"})

	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("ctx: %w", sqlErr)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
	assert.Equal(t, SeverityError, MapSeverity("nonsense"))
}
