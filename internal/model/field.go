package model

import "encoding/json"

// Field is a JSON value that remembers whether its key was present and
// whether it was an explicit null.
//
// The zero value means "absent". encoding/json calls UnmarshalJSON only for
// keys present in the document, null included.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true

	if string(data) == "null" {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}

	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON implements json.Marshaler. Absent and null fields encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Present reports whether the key was supplied with a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Ptr returns a pointer to the value, or nil when absent or null.
func (f Field[T]) Ptr() *T {
	if !f.Present() {
		return nil
	}
	v := f.Value
	return &v
}

// Of returns a present Field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}
