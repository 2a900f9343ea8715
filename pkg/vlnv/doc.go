// SPDX-License-Identifier: MPL-2.0

// Package vlnv parses and compares versioned component identifiers.
//
// An identifier has the form vendor:library:name:version. Vendor, library and
// version are optional; the legacy form name-version is also accepted. A
// [DependencyRef] adds a comparison operator (<, <=, =, >, >=, ^, ~) in front of
// an identifier and is matched against concrete identifiers with [Satisfies].
//
// Version ordering is segment-wise: versions are split on dots, numeric
// segments compare numerically and sort before non-numeric segments, which
// compare lexically. [Key] is the single ordering definition shared by
// [Compare], equality checks and constraint evaluation.
package vlnv
