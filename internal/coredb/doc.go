// SPDX-License-Identifier: MPL-2.0

// Package coredb indexes parsed cores and resolves dependency references
// against them.
//
// A DB answers two questions: which core satisfies a dependency reference
// (Find), and which cores a top-level core pulls in, in an order where every
// core comes after its dependencies (Resolve). A lock file can pin the
// versions picked by an earlier resolution.
package coredb
