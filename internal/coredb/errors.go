// SPDX-License-Identifier: MPL-2.0

package coredb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coresolve/coresolve/pkg/vlnv"
)

var (
	// ErrCoreNotFound is returned when no core satisfies a reference.
	ErrCoreNotFound = errors.New("core not found")
	// ErrDependencyNotSatisfied is returned when a dependency of a core in the
	// closure cannot be satisfied.
	ErrDependencyNotSatisfied = errors.New("dependency not satisfied")
	// ErrDependencyCycle is returned when the dependency graph has a cycle.
	ErrDependencyCycle = errors.New("dependency cycle")
	// ErrVersionConflict is returned when two references in one closure need
	// different versions of the same core.
	ErrVersionConflict = errors.New("version conflict")
	// ErrInvalidLockFile is returned when a lock file cannot be decoded.
	ErrInvalidLockFile = errors.New("invalid lock file")
)

type (
	// NotFoundError names the reference nothing satisfied.
	NotFoundError struct {
		Ref vlnv.DependencyRef
	}

	// UnsatisfiedError names the core whose dependency could not be satisfied.
	UnsatisfiedError struct {
		Ref         vlnv.DependencyRef
		RequestedBy vlnv.ComponentID
	}

	// CycleError lists the cores forming a cycle; the first core is repeated
	// at the end.
	CycleError struct {
		Path []vlnv.ComponentID
	}

	// ConflictError reports a reference that the already selected version of
	// a core does not satisfy.
	ConflictError struct {
		Ref         vlnv.DependencyRef
		RequestedBy vlnv.ComponentID
		Selected    vlnv.ComponentID
	}

	// LockFileError wraps a lock file decoding failure.
	LockFileError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no core satisfies %s", e.Ref)
}

// Unwrap returns ErrCoreNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrCoreNotFound }

// Error implements the error interface.
func (e *UnsatisfiedError) Error() string {
	return fmt.Sprintf("%s requires %s, which no core satisfies", e.RequestedBy, e.Ref)
}

// Unwrap returns ErrDependencyNotSatisfied for errors.Is() compatibility.
func (e *UnsatisfiedError) Unwrap() error { return ErrDependencyNotSatisfied }

// Error implements the error interface.
func (e *CycleError) Error() string {
	names := make([]string, len(e.Path))
	for i, id := range e.Path {
		names[i] = id.String()
	}
	return "dependency cycle: " + strings.Join(names, " -> ")
}

// Unwrap returns ErrDependencyCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrDependencyCycle }

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s requires %s, but %s was already selected", e.RequestedBy, e.Ref, e.Selected)
}

// Unwrap returns ErrVersionConflict for errors.Is() compatibility.
func (e *ConflictError) Unwrap() error { return ErrVersionConflict }

// Error implements the error interface.
func (e *LockFileError) Error() string {
	return fmt.Sprintf("invalid lock file %s: %v", e.Path, e.Err)
}

// Unwrap returns both the sentinel and the decoding error.
func (e *LockFileError) Unwrap() []error { return []error{ErrInvalidLockFile, e.Err} }
