// SPDX-License-Identifier: MPL-2.0

package vlnv

import (
	"cmp"
	"strings"
)

type (
	// Version is a dot-separated version string such as "1.2.3" or "2.0.rc1".
	// The zero value means "no version" and matches any constraint.
	Version string

	// Segment is one dot-separated component of a Version.
	Segment struct {
		raw     string
		numeric bool
	}

	// Key is the comparable form of a Version. Build one with Version.Key.
	Key []Segment
)

// String returns the version text.
func (v Version) String() string { return string(v) }

// IsZero reports whether the version is absent.
func (v Version) IsZero() bool { return v == "" }

// Key splits the version into ordered segments.
func (v Version) Key() Key {
	if v == "" {
		return nil
	}
	parts := strings.Split(string(v), ".")
	key := make(Key, 0, len(parts))
	for _, p := range parts {
		key = append(key, newSegment(p))
	}
	return key
}

func newSegment(s string) Segment {
	if s == "" {
		return Segment{raw: s}
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return Segment{raw: s}
		}
	}
	// Leading zeros do not change a numeric value.
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return Segment{raw: trimmed, numeric: true}
}

// String returns the segment text (numeric segments without leading zeros).
func (s Segment) String() string { return s.raw }

// IsNumeric reports whether the segment consists only of digits.
func (s Segment) IsNumeric() bool { return s.numeric }

// IsZero reports whether the segment is the number zero.
func (s Segment) IsZero() bool { return s.numeric && s.raw == "0" }

// Compare orders two segments. Numeric segments compare by value and sort
// before non-numeric segments; non-numeric segments compare lexically.
func (s Segment) Compare(o Segment) int {
	switch {
	case s.numeric && o.numeric:
		// Digit strings without leading zeros: longer is larger.
		if len(s.raw) != len(o.raw) {
			if len(s.raw) < len(o.raw) {
				return -1
			}
			return 1
		}
		return strings.Compare(s.raw, o.raw)
	case s.numeric:
		return -1
	case o.numeric:
		return 1
	default:
		return strings.Compare(s.raw, o.raw)
	}
}

// Compare orders two keys segment by segment. The shorter key is padded with
// zero segments, so "1.2" and "1.2.0" compare equal. An empty key sorts
// before any version.
func (k Key) Compare(o Key) int {
	if len(k) == 0 || len(o) == 0 {
		return cmp.Compare(len(k), len(o))
	}
	for i := range max(len(k), len(o)) {
		if c := k.segment(i).Compare(o.segment(i)); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports whether both keys denote the same version.
func (k Key) Equal(o Key) bool { return k.Compare(o) == 0 }

// segment returns the i-th segment, or the numeric zero segment when the key
// is shorter.
func (k Key) segment(i int) Segment {
	if i < len(k) {
		return k[i]
	}
	return Segment{raw: "0", numeric: true}
}

// CompareVersions orders two versions using their keys.
func CompareVersions(a, b Version) int {
	return a.Key().Compare(b.Key())
}
