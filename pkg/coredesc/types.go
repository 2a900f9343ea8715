// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"errors"
	"fmt"
)

const (
	DatatypeStr  Datatype = "str"
	DatatypeInt  Datatype = "int"
	DatatypeBool Datatype = "bool"
	DatatypeReal Datatype = "real"
	DatatypeFile Datatype = "file"

	PhasePreBuild  Phase = "pre_build"
	PhasePostBuild Phase = "post_build"
	PhasePreRun    Phase = "pre_run"
	PhasePostRun   Phase = "post_run"

	PositionAppend  Position = "append"
	PositionPrepend Position = "prepend"
	PositionFirst   Position = "first"
	PositionLast    Position = "last"
)

var (
	// ErrInvalidDatatype is the sentinel error wrapped by InvalidDatatypeError.
	ErrInvalidDatatype = errors.New("invalid datatype")

	// Phases lists the hook phases in execution order.
	Phases = []Phase{PhasePreBuild, PhasePostBuild, PhasePreRun, PhasePostRun}
)

type (
	// Datatype is the value type of a parameter.
	Datatype string

	// Phase is a hook point in the external build lifecycle.
	Phase string

	// Position tells the build system where generated files go relative to
	// the files of the core that requested them.
	Position string

	// InvalidDatatypeError is returned when a Datatype value is not recognized.
	InvalidDatatypeError struct {
		Value Datatype
	}
)

// Error implements the error interface.
func (e *InvalidDatatypeError) Error() string {
	return fmt.Sprintf("invalid datatype %q (valid: str, int, bool, real, file)", string(e.Value))
}

// Unwrap returns ErrInvalidDatatype so callers can use errors.Is for programmatic detection.
func (e *InvalidDatatypeError) Unwrap() error { return ErrInvalidDatatype }

// String returns the datatype name.
func (d Datatype) String() string { return string(d) }

// IsValid returns whether the Datatype is one of the defined types,
// and a list of validation errors if it is not.
func (d Datatype) IsValid() (bool, []error) {
	switch d {
	case DatatypeStr, DatatypeInt, DatatypeBool, DatatypeReal, DatatypeFile:
		return true, nil
	default:
		return false, []error{&InvalidDatatypeError{Value: d}}
	}
}

// String returns the phase name.
func (p Phase) String() string { return string(p) }

// String returns the position name.
func (p Position) String() string { return string(p) }
