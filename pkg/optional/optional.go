// Package optional distinguishes "absent", "null" and "set" for JSON fields,
// which a plain pointer cannot.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON value that remembers whether it appeared in the input.
//
//	{}             -> Set=false
//	{"f": null}    -> Set=true, Null=true
//	{"f": 3}       -> Set=true, Value=3
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Of returns a Field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Null returns a Field that was explicitly null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the input.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Value = zero
		f.Null = true
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON writes null for null or unset fields. Use omitzero on the
// struct tag to leave unset fields out entirely.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// IsZero reports whether the field was absent. It makes omitzero work.
func (f Field[T]) IsZero() bool {
	return !f.Set
}

// Ptr returns a pointer to the value, or nil when the field is absent or null.
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	v := f.Value
	return &v
}
