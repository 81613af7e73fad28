package model

import (
	"encoding/json"

	"github.com/deppfellow/shipping/internal/validation"
)

// GetPackageRequest identifies a package by the product it describes.
type GetPackageRequest struct {
	ProductID int64 `param:"productId"`
}

func (r *GetPackageRequest) Validate() error {
	return nil
}

// CreatePackageRequest is the body of POST /packages.
//
// Required fields are pointers so a missing key is told apart from a zero.
type CreatePackageRequest struct {
	ProductID                   *int64   `json:"product_id" validate:"required"`
	Height                      *float64 `json:"height" validate:"required,gt=0"`
	Width                       *float64 `json:"width" validate:"required,gt=0"`
	Depth                       *float64 `json:"depth" validate:"required,gt=0"`
	Weight                      *float64 `json:"weight" validate:"required,gt=0"`
	SpecialHandlingInstructions *string  `json:"special_handling_instructions"`
}

func (r *CreatePackageRequest) RequiresBody() bool {
	return true
}

func (r *CreatePackageRequest) Validate() error {
	return validation.Struct(r)
}

// Fields converts a validated request into repository input.
func (r *CreatePackageRequest) Fields() NewPackageFields {
	return NewPackageFields{
		ProductID:                   *r.ProductID,
		Height:                      *r.Height,
		Width:                       *r.Width,
		Depth:                       *r.Depth,
		Weight:                      *r.Weight,
		SpecialHandlingInstructions: r.SpecialHandlingInstructions,
	}
}

// CreatePackageResponse reports the id assigned to a new package.
type CreatePackageResponse struct {
	PackageID int64 `json:"package_id"`
}

// UpdatePackageRequest is PUT /packages/:id. Any subset of the mutable
// fields may be supplied.
type UpdatePackageRequest struct {
	ID int64 `param:"id" json:"-"`

	Height                      Field[float64] `json:"height"`
	Width                       Field[float64] `json:"width"`
	Depth                       Field[float64] `json:"depth"`
	Weight                      Field[float64] `json:"weight"`
	SpecialHandlingInstructions Field[string]  `json:"special_handling_instructions"`

	// Identity keys are only captured so they can be rejected.
	BodyProductID Field[json.RawMessage] `json:"product_id"`
	BodyID        Field[json.RawMessage] `json:"id"`
}

// updateDimensions is the validator view of the supplied dimensions.
type updateDimensions struct {
	Height *float64 `json:"height" validate:"omitempty,gt=0"`
	Width  *float64 `json:"width" validate:"omitempty,gt=0"`
	Depth  *float64 `json:"depth" validate:"omitempty,gt=0"`
	Weight *float64 `json:"weight" validate:"omitempty,gt=0"`
}

func (r *UpdatePackageRequest) RequiresBody() bool {
	return true
}

func (r *UpdatePackageRequest) Validate() error {
	var problems validation.CustomValidationErrors

	if r.BodyProductID.Set {
		problems = append(problems, validation.CustomValidationError{Field: "product_id", Message: "is immutable"})
	}
	if r.BodyID.Set {
		problems = append(problems, validation.CustomValidationError{Field: "id", Message: "is immutable"})
	}

	dimensions := []struct {
		name  string
		field Field[float64]
	}{
		{"height", r.Height},
		{"width", r.Width},
		{"depth", r.Depth},
		{"weight", r.Weight},
	}
	for _, d := range dimensions {
		if d.field.Set && d.field.Null {
			problems = append(problems, validation.CustomValidationError{Field: d.name, Message: "must not be null"})
		}
	}

	if len(problems) > 0 {
		return problems
	}

	return validation.Struct(updateDimensions{
		Height: r.Height.Ptr(),
		Width:  r.Width.Ptr(),
		Depth:  r.Depth.Ptr(),
		Weight: r.Weight.Ptr(),
	})
}

// Update converts a validated request into the fields to merge.
func (r *UpdatePackageRequest) Update() PackageUpdate {
	return PackageUpdate{
		Height:                      r.Height.Ptr(),
		Width:                       r.Width.Ptr(),
		Depth:                       r.Depth.Ptr(),
		Weight:                      r.Weight.Ptr(),
		SpecialHandlingInstructions: r.SpecialHandlingInstructions,
	}
}

// DeletePackageRequest identifies a package by its store id.
type DeletePackageRequest struct {
	ID int64 `param:"id"`
}

func (r *DeletePackageRequest) Validate() error {
	return nil
}
