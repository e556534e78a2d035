package models

import (
	"bytes"
	"encoding/json"

	"gorm.io/datatypes"
)

// Nullable distinguishes an omitted JSON field from an explicit null.
// JSON null and "" both decode to Set && !Valid.
type Nullable[T any] struct {
	Value T
	Set   bool
	Valid bool
}

func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Set: true, Valid: true}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		var zero T
		n.Value = zero
		n.Valid = false
		return nil
	}
	if err := json.Unmarshal(trimmed, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the value as a pointer, nil when null or omitted.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// column returns what a direct-assignment update writes for this field.
func (n Nullable[T]) column() any {
	if !n.Valid {
		return nil
	}
	return n.Value
}

// patch collects column assignments for a partial update.
type patch map[string]any

// coalesce writes the value only when the caller supplied a non-null one.
func coalesce[T any](p patch, column string, v *T) {
	if v != nil {
		p[column] = *v
	}
}

// assign writes the value, including null, whenever the caller supplied the field.
func assign[T any](p patch, column string, n Nullable[T]) {
	if n.Set {
		p[column] = n.column()
	}
}

// coalesceJSON writes a JSON array column when the caller supplied one; [] clears it.
func coalesceJSON[T any](p patch, column string, v *[]T) {
	if v == nil {
		return
	}
	s := *v
	if s == nil {
		s = []T{}
	}
	p[column] = datatypes.JSONSlice[T](s)
}
