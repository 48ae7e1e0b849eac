// Package errors provides error handling for derive.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging generator failures
//   - Error wrapping and context
//   - User-facing hints (printed by the CLI)
//   - Error marks, so a wrapped failure still matches its sentinel
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := gen.Generate(desc); err != nil {
//	    return errors.Wrapf(err, "generate %s", desc.Name)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'derive generate' to refresh the file")
//
//	// Check errors
//	if errors.Is(err, errors.ErrStale) {
//	    // handle out-of-date output
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Mark      = crdb.Mark
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// AssertionFailedf reports a broken internal invariant of the generator.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for use across derive.
// Use these with errors.Is() for type-safe error checking.
// Wrap or Mark them to add context while preserving the type.
var (
	// ErrAttribute marks a malformed or unrecognised field/type annotation
	ErrAttribute = New("invalid annotation")

	// ErrNameConflict indicates a generated identifier would collide with a source field
	ErrNameConflict = New("generated name conflict")

	// ErrNoInnerType indicates a setter needed the element type of a container that has none
	ErrNoInnerType = New("container has no inner type")

	// ErrNoTargets indicates the loaded packages contain no +derive markers
	ErrNoTargets = New("no derive targets found")

	// ErrStale indicates generated files on disk differ from fresh output
	ErrStale = New("generated code is out of date")

	// ErrUnknownGenerator indicates a +derive marker named a generator that is not registered
	ErrUnknownGenerator = New("unknown generator")
)

// IsAttributeError checks if an error is or wraps an annotation error
func IsAttributeError(err error) bool {
	return err != nil && Is(err, ErrAttribute)
}

// IsStaleError checks if an error is or wraps ErrStale
func IsStaleError(err error) bool {
	return err != nil && Is(err, ErrStale)
}

// NewNameConflict creates a name-conflict error with a formatted message
func NewNameConflict(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNameConflict)
}
