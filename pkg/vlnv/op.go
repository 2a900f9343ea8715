// SPDX-License-Identifier: MPL-2.0

package vlnv

import (
	"errors"
	"fmt"
)

const (
	// OpNone matches the identifier exactly, or any version when the
	// reference carries no version.
	OpNone Op = ""
	// OpLT matches versions strictly lower than the reference.
	OpLT Op = "<"
	// OpLTE matches versions lower than or equal to the reference.
	OpLTE Op = "<="
	// OpEQ matches the reference version only.
	OpEQ Op = "="
	// OpGT matches versions strictly greater than the reference.
	OpGT Op = ">"
	// OpGTE matches versions greater than or equal to the reference.
	OpGTE Op = ">="
	// OpCaret matches versions sharing the leading nonzero component and not
	// lower than the reference.
	OpCaret Op = "^"
	// OpTilde matches versions sharing major.minor and not lower than the
	// reference.
	OpTilde Op = "~"
)

// ErrInvalidOp is the sentinel error wrapped by InvalidOpError.
var ErrInvalidOp = errors.New("invalid constraint operator")

// opTokens lists operator prefixes longest first so "<=" wins over "<".
var opTokens = []Op{OpLTE, OpGTE, OpLT, OpGT, OpEQ, OpCaret, OpTilde}

type (
	// Op is a dependency comparison operator.
	Op string

	// InvalidOpError is returned when an Op value is not one of the known operators.
	InvalidOpError struct {
		Value Op
	}
)

// Error implements the error interface.
func (e *InvalidOpError) Error() string {
	return fmt.Sprintf("invalid constraint operator %q", string(e.Value))
}

// Unwrap returns ErrInvalidOp so callers can use errors.Is for programmatic detection.
func (e *InvalidOpError) Unwrap() error { return ErrInvalidOp }

// String returns the operator token.
func (o Op) String() string { return string(o) }

// IsValid returns whether the Op is a known operator (OpNone included),
// and a list of validation errors if it is not.
func (o Op) IsValid() (bool, []error) {
	switch o {
	case OpNone, OpLT, OpLTE, OpEQ, OpGT, OpGTE, OpCaret, OpTilde:
		return true, nil
	default:
		return false, []error{&InvalidOpError{Value: o}}
	}
}

// splitOp strips the longest operator prefix from s.
func splitOp(s string) (Op, string) {
	for _, op := range opTokens {
		if len(s) >= len(op) && s[:len(op)] == string(op) {
			return op, s[len(op):]
		}
	}
	return OpNone, s
}
