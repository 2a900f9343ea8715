// SPDX-License-Identifier: MPL-2.0

package vlnv

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidVLNV is the sentinel error wrapped by InvalidVLNVError.
var ErrInvalidVLNV = errors.New("invalid vlnv")

type (
	// ComponentID identifies a component as vendor:library:name:version.
	// Only Name is required.
	ComponentID struct {
		Vendor  string
		Library string
		Name    string
		Version Version
	}

	// InvalidVLNVError is returned when an identifier cannot be parsed.
	InvalidVLNVError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidVLNVError) Error() string {
	return fmt.Sprintf("invalid vlnv %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidVLNV so callers can use errors.Is for programmatic detection.
func (e *InvalidVLNVError) Unwrap() error { return ErrInvalidVLNV }

// Parse parses an identifier. Accepted forms:
//
//	name
//	name-1.0              (legacy)
//	name:1.0
//	vendor:library:name
//	vendor:library:name:1.0
func Parse(s string) (ComponentID, error) {
	if s == "" {
		return ComponentID{}, &InvalidVLNVError{Value: s, Reason: "empty identifier"}
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return ComponentID{}, &InvalidVLNVError{Value: s, Reason: "contains whitespace"}
	}

	var id ComponentID
	if !strings.Contains(s, ":") {
		id.Name, id.Version = splitLegacy(s)
	} else {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 2:
			id.Name, id.Version = parts[0], Version(parts[1])
		case 3:
			id.Vendor, id.Library, id.Name = parts[0], parts[1], parts[2]
		case 4:
			id.Vendor, id.Library, id.Name, id.Version = parts[0], parts[1], parts[2], Version(parts[3])
		default:
			return ComponentID{}, &InvalidVLNVError{Value: s, Reason: "too many ':' separated fields"}
		}
	}

	if id.Name == "" {
		return ComponentID{}, &InvalidVLNVError{Value: s, Reason: "missing name"}
	}
	return id, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) ComponentID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// splitLegacy splits "name-1.0" at the last '-' that is followed by a digit.
func splitLegacy(s string) (string, Version) {
	for i := len(s) - 2; i > 0; i-- {
		if s[i] == '-' && s[i+1] >= '0' && s[i+1] <= '9' {
			return s[:i], Version(s[i+1:])
		}
	}
	return s, ""
}

// String returns the canonical vendor:library:name[:version] form.
func (id ComponentID) String() string {
	s := id.Vendor + ":" + id.Library + ":" + id.Name
	if id.Version != "" {
		s += ":" + string(id.Version)
	}
	return s
}

// VLN returns the identifier without its version.
func (id ComponentID) VLN() string {
	return id.Vendor + ":" + id.Library + ":" + id.Name
}

// WithoutVersion returns a copy of id with the version cleared.
func (id ComponentID) WithoutVersion() ComponentID {
	id.Version = ""
	return id
}

// Sanitized returns the identifier with separators replaced by underscores,
// suitable as a directory name.
func (id ComponentID) Sanitized() string {
	return strings.NewReplacer(":", "_", "/", "_", " ", "_").Replace(strings.TrimLeft(id.String(), ":"))
}

// Compare orders identifiers by vendor, library, name and then version.
// Returns -1, 0 or +1.
func Compare(a, b ComponentID) int {
	if c := cmp.Compare(a.Vendor, b.Vendor); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Library, b.Library); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return CompareVersions(a.Version, b.Version)
}

// Equal reports whether a and b name the same component and version.
// Versions are compared by key, so "1.01" equals "1.1".
func Equal(a, b ComponentID) bool {
	return Compare(a, b) == 0
}
