// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LogLevelDebug logs discovery and resolution details.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only advisories and problems.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only failures.
	LogLevelError LogLevel = "error"

	// SyncTypeGit marks a library fetched from a git remote.
	SyncTypeGit SyncType = "git"
	// SyncTypeLocal marks a library that already exists on disk.
	SyncTypeLocal SyncType = "local"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidSyncType is returned when a SyncType value is not recognized.
	ErrInvalidSyncType = errors.New("invalid sync type")
	// ErrInvalidLibrary is the sentinel error wrapped by InvalidLibraryError.
	ErrInvalidLibrary = errors.New("invalid library")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of log records printed by the CLI.
	LogLevel string

	// SyncType names how a library is kept up to date. Syncing itself is not
	// performed; the value is recorded for the external tool that does it.
	SyncType string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidSyncTypeError is returned when a SyncType value is not recognized.
	InvalidSyncTypeError struct {
		Value SyncType
	}

	// InvalidLibraryError is returned when a Library has invalid fields.
	InvalidLibraryError struct {
		Name        string
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Library is a named collection of cores.
	Library struct {
		// Name identifies the library; the default location is derived from it.
		Name string `json:"name" mapstructure:"name"`
		// Location is the directory holding the library's cores.
		Location string `json:"location,omitempty" mapstructure:"location"`
		// SyncURI is the remote the library is fetched from.
		SyncURI string `json:"sync_uri,omitempty" mapstructure:"sync_uri"`
		// SyncType is "git" or "local".
		SyncType SyncType `json:"sync_type,omitempty" mapstructure:"sync_type"`
		// AutoSync marks the library for automatic updates (default: true).
		AutoSync bool `json:"auto_sync" mapstructure:"auto_sync"`
	}

	// Config holds the application configuration.
	Config struct {
		BuildRoot   string    `json:"build_root,omitempty" mapstructure:"build_root"`
		CacheRoot   string    `json:"cache_root,omitempty" mapstructure:"cache_root"`
		LibraryRoot string    `json:"library_root,omitempty" mapstructure:"library_root"`
		CoresRoot   []string  `json:"cores_root,omitempty" mapstructure:"cores_root"`
		Libraries   []Library `json:"libraries,omitempty" mapstructure:"libraries"`
		LogLevel    LogLevel  `json:"log_level,omitempty" mapstructure:"log_level"`
	}
)

// IsValid returns whether the Library has valid fields.
func (l Library) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, errors.New("name must be non-empty"))
	}
	if l.SyncType != "" {
		if valid, fieldErrs := l.SyncType.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if l.SyncType == SyncTypeGit && l.SyncURI == "" {
		errs = append(errs, errors.New("git libraries need a sync_uri"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidLibraryError{Name: l.Name, FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLibraryError.
func (e *InvalidLibraryError) Error() string {
	return fmt.Sprintf("invalid library %q: %v", e.Name, errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidLibrary for errors.Is() compatibility.
func (e *InvalidLibraryError) Unwrap() error { return ErrInvalidLibrary }

// IsValid returns whether the Config has valid fields.
// It delegates to LogLevel.IsValid() and each library's IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.LogLevel != "" {
		if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, lib := range c.Libraries {
		if valid, fieldErrs := lib.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidSyncTypeError.
func (e *InvalidSyncTypeError) Error() string {
	return fmt.Sprintf("invalid sync type %q (valid: git, local)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidSyncTypeError) Unwrap() error { return ErrInvalidSyncType }

// String returns the string representation of the SyncType.
func (s SyncType) String() string { return string(s) }

// IsValid returns whether the SyncType is one of the defined sync types,
// and a list of validation errors if it is not.
func (s SyncType) IsValid() (bool, []error) {
	switch s {
	case SyncTypeGit, SyncTypeLocal:
		return true, nil
	default:
		return false, []error{&InvalidSyncTypeError{Value: s}}
	}
}

// DefaultConfig returns the default configuration. Directory fallbacks that
// depend on the environment are filled in when the configuration is loaded.
func DefaultConfig() *Config {
	return &Config{
		BuildRoot: "build",
		CoresRoot: []string{},
		Libraries: []Library{},
		LogLevel:  LogLevelInfo,
	}
}
