// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is returned by Schema.Decode for oversized input.
var ErrFileTooLarge = errors.New("file too large")

type (
	// Issue is one schema violation.
	Issue struct {
		// Path locates the offending value, e.g. "filesets.rtl.files[2]".
		// It is empty for errors about the document as a whole.
		Path    string
		Message string
	}

	// ValidationError lists the violations found in one file.
	ValidationError struct {
		File   string
		Issues []Issue
	}
)

// Error renders a single issue inline and several issues one per line.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return e.File + ": " + e.Issues[0].String()
	}
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// validationError converts a CUE error into a *ValidationError. Errors that
// carry no CUE detail are wrapped with the filename instead.
func validationError(err error, file string) error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", file, err)
	}

	ve := &ValidationError{File: file, Issues: make([]Issue, 0, len(list))}
	for _, e := range list {
		path := jsonPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			// CUE may lead the message with the path again.
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		ve.Issues = append(ve.Issues, Issue{Path: path, Message: msg})
	}
	return ve
}

// jsonPath joins CUE path selectors, writing list indices in brackets:
// ["targets", "sim", "filesets", "0"] becomes "targets.sim.filesets[0]".
func jsonPath(selectors []string) string {
	var b strings.Builder
	for i, sel := range selectors {
		switch {
		case i > 0 && isIndex(sel):
			b.WriteString("[" + sel + "]")
		case i > 0:
			b.WriteString("." + sel)
		default:
			b.WriteString(sel)
		}
	}
	return b.String()
}

func isIndex(sel string) bool {
	if sel == "" {
		return false
	}
	for _, c := range sel {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
