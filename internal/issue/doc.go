// SPDX-License-Identifier: MPL-2.0

// Package issue holds the user facing side of errors: ActionableError adds
// the failed operation and suggestions to an error, and the issue catalog
// explains each failure class in Markdown rendered with glamour.
package issue
