// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/coresolve/coresolve/internal/config"
	"github.com/coresolve/coresolve/pkg/coredesc"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// IgnoreMarker is the file name that excludes a directory tree from discovery.
	IgnoreMarker = "CORESOLVE_IGNORE"
	// CorePattern matches core files relative to a root.
	CorePattern = "**/*.core"
)

type (
	// DiscoveredFile represents a found core file with its origin.
	DiscoveredFile struct {
		// Path is the absolute path to the core file.
		Path string
		// Root is the library root the file was found under.
		Root string
		// Priority is the index of Root in the search order; lower wins.
		Priority int
		// Core is the parsed content (nil until loaded or when parsing failed).
		Core *coredesc.Descriptor
		// Error contains any error that occurred during parsing.
		Error error
	}

	// Discovery walks library roots for core files.
	Discovery struct {
		roots       []string
		ignore      []string
		concurrency int
	}

	// Option configures a Discovery.
	Option func(*Discovery)
)

// WithRoots replaces the roots taken from the configuration.
func WithRoots(roots ...string) Option {
	return func(d *Discovery) {
		d.roots = slices.Clone(roots)
	}
}

// WithIgnorePatterns adds doublestar patterns, relative to each root, for
// files and directories to leave out.
func WithIgnorePatterns(patterns ...string) Option {
	return func(d *Discovery) {
		d.ignore = append(d.ignore, patterns...)
	}
}

// WithConcurrency bounds the number of files parsed at once.
func WithConcurrency(n int) Option {
	return func(d *Discovery) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// New creates a Discovery searching cfg.LibraryRoots(). cfg may be nil when
// roots are given with WithRoots.
func New(cfg *config.Config, opts ...Option) *Discovery {
	d := &Discovery{concurrency: runtime.GOMAXPROCS(0)}
	if cfg != nil {
		d.roots = cfg.LibraryRoots()
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Roots returns the roots in search order.
func (d *Discovery) Roots() []string {
	return slices.Clone(d.roots)
}

// DiscoverAll finds core files below every root, in root priority order and
// lexical order within a root. Missing or unreadable roots produce
// diagnostics, not errors; only context cancellation is fatal.
func (d *Discovery) DiscoverAll(ctx context.Context) ([]*DiscoveredFile, []Diagnostic, error) {
	var (
		files       []*DiscoveredFile
		diagnostics []Diagnostic
	)

	for i, root := range d.roots {
		rootFiles, rootDiags, err := d.walkRoot(ctx, i, root)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, rootFiles...)
		diagnostics = append(diagnostics, rootDiags...)
	}

	return files, diagnostics, nil
}

func (d *Discovery) walkRoot(ctx context.Context, priority int, root string) ([]*DiscoveredFile, []Diagnostic, error) {
	var (
		files       []*DiscoveredFile
		diagnostics []Diagnostic
	)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		slog.Warn("failed to resolve absolute path for library root", "root", root, "error", err)
		return nil, []Diagnostic{{
			Severity: SeverityWarning,
			Code:     CodeRootUnreadable,
			Message:  fmt.Sprintf("cannot resolve library root %s", root),
			Path:     root,
			Cause:    err,
		}}, nil
	}

	if info, statErr := os.Stat(absRoot); statErr != nil || !info.IsDir() {
		diag := Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeRootNotFound,
			Message:  fmt.Sprintf("library root %s does not exist", absRoot),
			Path:     absRoot,
			Cause:    statErr,
		}
		if statErr == nil {
			diag.Message = fmt.Sprintf("library root %s is not a directory", absRoot)
		}
		return nil, []Diagnostic{diag}, nil
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeRootUnreadable,
				Message:  fmt.Sprintf("cannot read %s", path),
				Path:     path,
				Cause:    err,
			})
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if rel != "." && d.isIgnored(rel) {
				return fs.SkipDir
			}
			if hasIgnoreMarker(path) {
				slog.Debug("skipping ignored directory", "dir", path)
				return fs.SkipDir
			}
			return nil
		}

		if d.isIgnored(rel) {
			return nil
		}
		if matched, matchErr := doublestar.Match(CorePattern, rel); matchErr == nil && matched {
			files = append(files, &DiscoveredFile{Path: path, Root: absRoot, Priority: priority})
		}
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("discover cores in %s: %w", absRoot, walkErr)
		}
		diagnostics = append(diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeRootUnreadable,
			Message:  fmt.Sprintf("cannot walk %s", absRoot),
			Path:     absRoot,
			Cause:    walkErr,
		})
	}

	return files, diagnostics, nil
}

// isIgnored reports whether rel (slash separated, relative to its root)
// matches an ignore pattern.
func (d *Discovery) isIgnored(rel string) bool {
	for _, pat := range d.ignore {
		if matched, matchErr := doublestar.Match(pat, rel); matchErr == nil && matched {
			return true
		}
	}
	return false
}

func hasIgnoreMarker(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, IgnoreMarker))
	return err == nil
}
