// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("core parse error")

	// ErrReference is the sentinel error wrapped by ReferenceError.
	ErrReference = errors.New("unresolved reference")

	// ErrMissingField is the sentinel error wrapped by MissingFieldError.
	ErrMissingField = errors.New("missing required field")

	// ErrRequiredFlag is the sentinel error wrapped by RequiredFlagError.
	ErrRequiredFlag = errors.New("missing required flag")

	// ErrInvalidParameterValue is the sentinel error wrapped by ParameterValueError.
	ErrInvalidParameterValue = errors.New("invalid parameter value")
)

type (
	// ParseError is returned when a descriptor cannot be turned into a
	// Descriptor: empty text, malformed YAML, schema violations or invalid
	// references between sections.
	ParseError struct {
		Path string
		Err  error
	}

	// ReferenceError is returned when a target names a parameter, script or
	// generator instance that the descriptor does not declare.
	ReferenceError struct {
		Kind   RefKind
		Name   string
		Target string
	}

	// MissingFieldError is returned when a resolution needs a field the
	// selected target does not declare.
	MissingFieldError struct {
		Field  string
		Target string
	}

	// RequiredFlagError is returned when a resolver operation needs a flag
	// the caller did not set.
	RequiredFlagError struct {
		Key string
	}

	// ParameterValueError is returned when a parameter default cannot be
	// coerced to its datatype.
	ParameterValueError struct {
		Name     string
		Target   string
		Datatype Datatype
		Value    string
		Err      error
	}

	// RefKind names the kind of definition a ReferenceError points at.
	RefKind string
)

const (
	RefParameter         RefKind = "parameter"
	RefScript            RefKind = "script"
	RefGeneratorInstance RefKind = "generator instance"
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("error while trying to parse the core file %s", e.Path)
	}
	return fmt.Sprintf("error while trying to parse the core file %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s '%s', requested by target '%s', was not found", e.Kind, e.Name, e.Target)
}

// Unwrap returns ErrReference so callers can use errors.Is for programmatic detection.
func (e *ReferenceError) Unwrap() error { return ErrReference }

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is not defined for target '%s'", e.Field, e.Target)
}

// Unwrap returns ErrMissingField so callers can use errors.Is for programmatic detection.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Error implements the error interface.
func (e *RequiredFlagError) Error() string {
	return fmt.Sprintf("flag %q is required", e.Key)
}

// Unwrap returns ErrRequiredFlag so callers can use errors.Is for programmatic detection.
func (e *RequiredFlagError) Unwrap() error { return ErrRequiredFlag }

// Error implements the error interface.
func (e *ParameterValueError) Error() string {
	msg := fmt.Sprintf("parameter '%s' in target '%s': cannot use %q as %s", e.Name, e.Target, e.Value, e.Datatype)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrInvalidParameterValue so callers can use errors.Is for programmatic detection.
func (e *ParameterValueError) Unwrap() error { return ErrInvalidParameterValue }
