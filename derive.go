// Package derive is the runtime support imported by generated code.
//
// Generated builders report unset required fields as *MissingFieldError, and
// Phantom is the marker placeholder that carries a type parameter without
// storing a value of it.
//
// Code is generated with the derive command:
//
//	//go:generate derive generate .
//
// See cmd/derive for the command and the builder and debug packages for the
// generated code.
package derive

import "github.com/teranos/derive/errors"

// ErrMissingField matches every *MissingFieldError under errors.Is.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError is returned by a generated Build method when a required
// field was never set.
type MissingFieldError struct {
	Type  string // record type name
	Field string
}

func (e *MissingFieldError) Error() string {
	return e.Type + ": missing required field " + e.Field
}

// Is reports whether target is ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Phantom mentions T in a record without storing a T. Debug formatting does
// not require a capability of parameters that only appear in a Phantom.
type Phantom[T any] struct{}

// String renders the placeholder without a value.
func (Phantom[T]) String() string {
	return "Phantom"
}
