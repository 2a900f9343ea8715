// SPDX-License-Identifier: MPL-2.0

package vlnv

import "errors"

// DependencyRef is an identifier plus a comparison operator describing the
// acceptable versions of a dependency.
type DependencyRef struct {
	ID ComponentID
	Op Op
}

// ParseDependency strips a leading operator token (longest match among
// <=, >=, <, >, =, ^, ~) and parses the remainder as an identifier.
func ParseDependency(s string) (DependencyRef, error) {
	op, rest := splitOp(s)
	id, err := Parse(rest)
	if err != nil {
		var invalid *InvalidVLNVError
		if errors.As(err, &invalid) {
			return DependencyRef{}, &InvalidVLNVError{Value: s, Reason: invalid.Reason}
		}
		return DependencyRef{}, err
	}
	if op != OpNone && id.Version == "" {
		return DependencyRef{}, &InvalidVLNVError{Value: s, Reason: "operator " + string(op) + " requires a version"}
	}
	return DependencyRef{ID: id, Op: op}, nil
}

// MustParseDependency is like ParseDependency but panics on error.
func MustParseDependency(s string) DependencyRef {
	ref, err := ParseDependency(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// String returns the operator followed by the canonical identifier.
func (r DependencyRef) String() string {
	return string(r.Op) + r.ID.String()
}

// SatisfiedBy reports whether candidate matches the reference.
func (r DependencyRef) SatisfiedBy(candidate ComponentID) bool {
	return Satisfies(r, candidate)
}

// Satisfies reports whether candidate fulfils ref.
//
// Names must match; an empty vendor or library in ref matches any value.
// A reference without version, or a candidate without version, matches on
// name alone.
func Satisfies(ref DependencyRef, candidate ComponentID) bool {
	if !namesMatch(ref.ID, candidate) {
		return false
	}
	if ref.ID.Version == "" || candidate.Version == "" {
		return true
	}

	want := ref.ID.Version.Key()
	have := candidate.Version.Key()
	c := have.Compare(want)

	switch ref.Op {
	case OpNone, OpEQ:
		return c == 0
	case OpLT:
		return c < 0
	case OpLTE:
		return c <= 0
	case OpGT:
		return c > 0
	case OpGTE:
		return c >= 0
	case OpCaret:
		return c >= 0 && samePrefix(want, have, caretPrefixLen(want))
	case OpTilde:
		return c >= 0 && samePrefix(want, have, tildePrefixLen(want))
	default:
		return false
	}
}

func namesMatch(ref, candidate ComponentID) bool {
	if ref.Name != candidate.Name {
		return false
	}
	if ref.Vendor != "" && ref.Vendor != candidate.Vendor {
		return false
	}
	if ref.Library != "" && ref.Library != candidate.Library {
		return false
	}
	return true
}

// caretPrefixLen returns how many leading segments must match for ^: up to
// and including the first nonzero segment. An all-zero version pins every
// segment.
func caretPrefixLen(k Key) int {
	for i, s := range k {
		if !s.IsZero() {
			return i + 1
		}
	}
	return len(k)
}

// tildePrefixLen pins major.minor, or just major for a single-segment version.
func tildePrefixLen(k Key) int {
	if len(k) < 2 {
		return len(k)
	}
	return 2
}

func samePrefix(want, have Key, n int) bool {
	for i := range n {
		if want.segment(i).Compare(have.segment(i)) != 0 {
			return false
		}
	}
	return true
}
