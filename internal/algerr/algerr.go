// Package algerr defines the two fatal error kinds the core surfaces to
// callers: shape mismatches and out-of-range indices. Everything else
// (conflicts, non-divisibility, empty common cubes) is an in-band
// sentinel value, never an error — see the package doc for the policy.
package algerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind distinguishes the two fatal error categories the core can
// raise. Degenerate-but-expected outcomes (product conflict, quotient
// non-divisibility, empty common cube) are never represented here.
type ErrorKind string

const (
	// ShapeError: two operands of a binary operation have different
	// var_num.
	ShapeError ErrorKind = "ShapeError"
	// RangeError: a cube index, variable id, or literal variable id is
	// outside its declared domain.
	RangeError ErrorKind = "RangeError"
)

// AlgError is the error type returned by the boundary API described in
// spec §6/§7. It carries the offending values so a caller can print a
// precise diagnostic without re-deriving context.
type AlgError struct {
	Kind ErrorKind
	Msg  string
}

func (e *AlgError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Shape reports a var_num mismatch between two operands.
func Shape(op string, want, got int) error {
	return errors.WithStack(&AlgError{
		Kind: ShapeError,
		Msg:  fmt.Sprintf("%s: var_num mismatch: want %d, got %d", op, want, got),
	})
}

// Range reports an out-of-domain index (cube id, variable id, or
// literal variable id).
func Range(what string, idx, limit int) error {
	return errors.WithStack(&AlgError{
		Kind: RangeError,
		Msg:  fmt.Sprintf("%s: index %d out of range [0,%d)", what, idx, limit),
	})
}

// Is reports whether err is an AlgError of the given kind, unwrapping
// github.com/pkg/errors' stack-trace wrapper first.
func Is(err error, kind ErrorKind) bool {
	type causer interface{ Cause() error }
	for err != nil {
		if ae, ok := err.(*AlgError); ok {
			return ae.Kind == kind
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}
