// SPDX-License-Identifier: MPL-2.0

// Package export copies the resolved files of a core into a build tree.
//
// Each file lands at its copyto path when one is set, otherwise at its name
// relative to the files root. A source that lies outside the files root is
// still exported; for the top-level core this produces an advisory warning.
package export
