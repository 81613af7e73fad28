package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBadRequestError(t *testing.T) {
	err := NewBadRequestError("Invalid data: height must be greater than 0", true, nil, nil)

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "BAD_REQUEST", err.Code)

	custom := "PACKAGE_INVALID"
	err = NewBadRequestError("x", false, &custom, []FieldError{{Field: "height", Error: "is required"}})
	assert.Equal(t, custom, err.Code)
	assert.Len(t, err.Errors, 1)
}

func TestNewMissingBodyError(t *testing.T) {
	err := NewMissingBodyError()

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, MessageMissingBody, err.Message)
}

func TestHTTPError_MarshalJSONFlattensDetails(t *testing.T) {
	err := NewNotFoundError("The product_id was not found", true, nil).WithDetails(map[string]any{
		"app_name":   "shipping",
		"product_id": int64(999),
		"message":    "must not override",
	})
	err.Timestamp = 1700000000.5

	raw, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "The product_id was not found", body["message"])
	assert.Equal(t, "shipping", body["app_name"])
	assert.EqualValues(t, 999, body["product_id"])
	assert.EqualValues(t, 404, body["status"])
	assert.EqualValues(t, 1700000000.5, body["timestamp"])
}

func TestHTTPError_MarshalJSONWithoutDetails(t *testing.T) {
	raw, err := json.Marshal(*NewInternalServerError())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"code": "INTERNAL_SERVER_ERROR",
		"message": "Internal Server Error",
		"status": 500,
		"override": false,
		"errors": null,
		"timestamp": 0
	}`, string(raw))
}

func TestHTTPError_WithMessageCopies(t *testing.T) {
	base := NewInternalServerError()
	changed := base.WithMessage("An internal error occurred while creating the package.")

	assert.Equal(t, "Internal Server Error", base.Message)
	assert.Equal(t, "An internal error occurred while creating the package.", changed.Message)
}

func TestStoreError_Unwraps(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := NewStoreError("update package", 42, "An internal error occurred while updating the package.", cause)

	assert.ErrorIs(t, fmt.Errorf("service: %w", err), cause)
	assert.Contains(t, err.Error(), "update package")
	assert.Contains(t, err.Error(), "42")

	var storeErr *StoreError
	require.ErrorAs(t, fmt.Errorf("service: %w", err), &storeErr)
	assert.Equal(t, int64(42), storeErr.Key)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("Not Found"))
}

func TestHTTPError_IsComparesStatus(t *testing.T) {
	notFound := NewNotFoundError("The package_id was not found", false, nil)
	wrapped := fmt.Errorf("update package: %w", notFound)

	assert.ErrorIs(t, wrapped, NewRouteNotFoundError())
	assert.NotErrorIs(t, wrapped, NewMissingBodyError())
	assert.NotErrorIs(t, wrapped, NewInternalServerError())
	assert.NotErrorIs(t, wrapped, errors.New("The package_id was not found"))
}
