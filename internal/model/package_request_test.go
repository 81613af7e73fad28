package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shipping/internal/validation"
)

func TestCreatePackageRequest_Validate(t *testing.T) {
	var req CreatePackageRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"product_id": 200, "height": 12, "width": 6, "depth": 3, "weight": 2
	}`), &req))

	require.NoError(t, req.Validate())

	fields := req.Fields()
	assert.Equal(t, int64(200), fields.ProductID)
	assert.Equal(t, 12.0, fields.Height)
	assert.Nil(t, fields.SpecialHandlingInstructions)
}

func TestCreatePackageRequest_ReportsFirstMissingField(t *testing.T) {
	var req CreatePackageRequest
	require.NoError(t, json.Unmarshal([]byte(`{"height": 12, "width": 6, "depth": 3}`), &req))

	err := req.Validate()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "product_id", verrs[0].Field())
	assert.Equal(t, "weight", verrs[1].Field())
}

func TestUpdatePackageRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		field   string
	}{
		{name: "partial", body: `{"height": 11, "weight": 1.6}`},
		{name: "clear instructions", body: `{"special_handling_instructions": null}`},
		{name: "null dimension", body: `{"depth": null}`, wantErr: true, field: "depth"},
		{name: "product_id supplied", body: `{"product_id": 5, "height": 1}`, wantErr: true, field: "product_id"},
		{name: "id supplied", body: `{"id": 5}`, wantErr: true, field: "id"},
		{name: "non-positive dimension", body: `{"width": -1}`, wantErr: true, field: "width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdatePackageRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			err := req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var custom validation.CustomValidationErrors
			var verrs validator.ValidationErrors
			switch {
			case errors.As(err, &custom):
				assert.Equal(t, tt.field, custom[0].Field)
			case errors.As(err, &verrs):
				assert.Equal(t, tt.field, verrs[0].Field())
			default:
				t.Fatalf("unexpected error type %T", err)
			}
		})
	}
}

func TestUpdatePackageRequest_Update(t *testing.T) {
	var req UpdatePackageRequest
	require.NoError(t, json.Unmarshal([]byte(`{"height": 11, "special_handling_instructions": null}`), &req))

	update := req.Update()
	require.NotNil(t, update.Height)
	assert.Equal(t, 11.0, *update.Height)
	assert.Nil(t, update.Width)
	assert.True(t, update.SpecialHandlingInstructions.Set)
	assert.True(t, update.SpecialHandlingInstructions.Null)
}
