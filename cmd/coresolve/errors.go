// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/coresolve/coresolve/internal/coredb"
	"github.com/coresolve/coresolve/internal/issue"
	"github.com/coresolve/coresolve/pkg/coredesc"
	"github.com/coresolve/coresolve/pkg/export"
)

// classifyError maps a command failure to the issue catalog entry that
// explains it. It returns 0 when no entry applies.
func classifyError(err error) issue.Id {
	switch {
	case isConfigLoadError(err):
		return issue.ConfigLoadFailedId
	case errors.Is(err, coredb.ErrInvalidLockFile):
		return issue.LockFileInvalidId
	case errors.Is(err, coredb.ErrDependencyCycle):
		return issue.DependencyCycleId
	case errors.Is(err, coredb.ErrDependencyNotSatisfied), errors.Is(err, coredb.ErrVersionConflict):
		return issue.DependencyNotSatisfiedId
	case errors.Is(err, coredb.ErrCoreNotFound):
		return issue.CoreNotFoundId
	case errors.Is(err, coredesc.ErrInvalidExpression):
		return issue.InvalidExpressionId
	case errors.Is(err, coredesc.ErrParse):
		return issue.CoreParseErrorId
	case errors.Is(err, coredesc.ErrReference):
		return issue.ReferenceNotFoundId
	case errors.Is(err, coredesc.ErrMissingField):
		return issue.MissingFieldId
	case errors.Is(err, coredesc.ErrRequiredFlag):
		return issue.ToolRequiredId
	case errors.Is(err, coredesc.ErrInvalidParameterValue):
		return issue.InvalidParameterValueId
	case errors.Is(err, export.ErrMissingFile):
		return issue.FileNotFoundId
	default:
		return 0
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderError prints err and, when the catalog has an entry for it, the
// matching help text.
func renderError(stderr io.Writer, err error, verbose bool) {
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	id := classifyError(err)
	if id == 0 {
		return
	}
	if entry := issue.Get(id); entry != nil {
		rendered, renderErr := entry.Render("auto")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}

// ExitError carries the process exit code out of a RunE handler. Execute
// exits with Code; Err, when set, is rendered like any other error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
