// SPDX-License-Identifier: MPL-2.0

package discovery

import "log/slog"

// Severity is how serious a Diagnostic is. Neither level stops discovery.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Code classifies a Diagnostic for callers that filter or count them.
type Code string

const (
	// CodeRootNotFound: a configured root does not exist.
	CodeRootNotFound Code = "root_not_found"
	// CodeRootUnreadable: a root or one of its subdirectories cannot be listed.
	CodeRootUnreadable Code = "root_unreadable"
	// CodeCoreParseSkipped: a core file was left out because it failed to parse.
	CodeCoreParseSkipped Code = "core_parse_skipped"
)

// Diagnostic is something discovery skipped. Diagnostics are returned, not
// printed, and the CLI logs them at Severity.Level.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Path is the root or core file concerned, if any.
	Path  string
	Cause error
}

// Level maps the severity onto a slog level.
func (s Severity) Level() slog.Level {
	if s == SeverityError {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// LogValue groups code, path and cause for structured logs.
func (d Diagnostic) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("code", string(d.Code))}
	if d.Path != "" {
		attrs = append(attrs, slog.String("path", d.Path))
	}
	if d.Cause != nil {
		attrs = append(attrs, slog.String("error", d.Cause.Error()))
	}
	return slog.GroupValue(attrs...)
}
