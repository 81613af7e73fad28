package model

// Package is the shipping-dimension record for a product.
//
// ID is assigned by the store and ProductID never changes after creation.
type Package struct {
	ID                          int64   `json:"-"`
	ProductID                   int64   `json:"-"`
	Height                      float64 `json:"height"`
	Width                       float64 `json:"width"`
	Depth                       float64 `json:"depth"`
	Weight                      float64 `json:"weight"`
	SpecialHandlingInstructions *string `json:"special_handling_instructions"`
}

// NewPackageFields are the caller-supplied values for a new package.
type NewPackageFields struct {
	ProductID                   int64
	Height                      float64
	Width                       float64
	Depth                       float64
	Weight                      float64
	SpecialHandlingInstructions *string
}

// PackageUpdate carries the fields supplied in an update. A nil field was
// not supplied and keeps its stored value.
//
// SpecialHandlingInstructions distinguishes "not supplied" (Set false) from
// "cleared" (Set true, Null true).
type PackageUpdate struct {
	Height                      *float64
	Width                       *float64
	Depth                       *float64
	Weight                      *float64
	SpecialHandlingInstructions Field[string]
}

// Apply merges the supplied fields into p, leaving the rest untouched.
func (u PackageUpdate) Apply(p *Package) {
	if u.Height != nil {
		p.Height = *u.Height
	}
	if u.Width != nil {
		p.Width = *u.Width
	}
	if u.Depth != nil {
		p.Depth = *u.Depth
	}
	if u.Weight != nil {
		p.Weight = *u.Weight
	}
	if u.SpecialHandlingInstructions.Set {
		p.SpecialHandlingInstructions = u.SpecialHandlingInstructions.Ptr()
	}
}

// Empty reports whether the update supplies no field at all.
func (u PackageUpdate) Empty() bool {
	return u.Height == nil && u.Width == nil && u.Depth == nil && u.Weight == nil &&
		!u.SpecialHandlingInstructions.Set
}
