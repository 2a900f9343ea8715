// SPDX-License-Identifier: MPL-2.0

// Package discovery locates core files below the configured library roots and
// parses them.
//
// Roots are visited in priority order. Each root is walked for files matching
// "**/*.core"; a directory containing a CORESOLVE_IGNORE file is skipped
// together with everything below it. Parsing runs concurrently. Files that
// fail to parse do not stop discovery: they are reported as diagnostics so
// the CLI can decide how loudly to render them.
//
// File organization:
//   - discovery.go: Discovery type, options and root walking
//   - load.go: concurrent parsing (LoadAll)
//   - diagnostic.go: structured non-fatal diagnostics
package discovery
