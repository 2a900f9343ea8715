// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/coresolve/coresolve/pkg/coredesc"
)

var (
	// ErrMissingFile is the sentinel error wrapped by MissingFileError.
	ErrMissingFile = errors.New("missing file")

	// ErrDestinationEscape is returned when a copyto path leaves the
	// destination root.
	ErrDestinationEscape = errors.New("destination escapes export root")
)

type (
	// Request describes one export.
	Request struct {
		// Files are the resolved file entries, usually from Descriptor.Files.
		Files []coredesc.FileEntry
		// FilesRoot is the directory file names are relative to.
		FilesRoot string
		// DestRoot is the export directory. It is created if absent.
		DestRoot string
		// IsToplevel enables the advisory for files outside FilesRoot.
		IsToplevel bool
	}

	// Result lists what an export did.
	Result struct {
		// Files are the destination paths relative to DestRoot, slash separated.
		Files []string
		// Warnings are advisory messages, one per offending entry.
		Warnings []string
	}

	// MissingFileError is returned when a file entry does not exist on disk.
	MissingFileError struct {
		Name string
		Root string
	}
)

// Error implements the error interface.
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("cannot find %s in %s", e.Name, e.Root)
}

// Unwrap returns ErrMissingFile so callers can use errors.Is for programmatic detection.
func (e *MissingFileError) Unwrap() error { return ErrMissingFile }

// Export copies req.Files into req.DestRoot. It stops at the first error;
// files copied before the error stay in place.
func Export(ctx context.Context, req Request) (*Result, error) {
	if err := os.MkdirAll(req.DestRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export root %s: %w", req.DestRoot, err)
	}

	res := &Result{Files: make([]string, 0, len(req.Files))}
	for _, f := range req.Files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		src := filepath.Join(req.FilesRoot, filepath.FromSlash(f.Name))
		info, err := os.Stat(src)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return res, &MissingFileError{Name: f.Name, Root: req.FilesRoot}
			}
			return res, fmt.Errorf("failed to stat %s: %w", src, err)
		}
		if info.IsDir() {
			return res, fmt.Errorf("%s in %s is a directory", f.Name, req.FilesRoot)
		}

		local, inside := relativeTo(req.FilesRoot, src)
		if !inside && req.IsToplevel {
			msg := fmt.Sprintf("%s is not within the directory %s", f.Name, req.FilesRoot)
			slog.Warn("file not within the directory", "file", f.Name, "root", req.FilesRoot)
			res.Warnings = append(res.Warnings, msg)
		}

		rel, err := destination(f, local)
		if err != nil {
			return res, err
		}
		if err := copyFile(src, filepath.Join(req.DestRoot, rel), info.Mode().Perm()); err != nil {
			return res, fmt.Errorf("failed to export %s: %w", f.Name, err)
		}
		res.Files = append(res.Files, filepath.ToSlash(rel))
	}
	return res, nil
}

// relativeTo reports whether path lies inside root once both are made
// absolute and cleaned, and returns path relative to root when it does.
// Symbolic links are not followed.
func relativeTo(root, path string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || !filepath.IsLocal(rel) {
		return "", false
	}
	return rel, true
}

// destination returns the path of f below the export root. local is the
// source path relative to the files root, or empty when the source lies
// outside it.
func destination(f coredesc.FileEntry, local string) (string, error) {
	if f.CopyTo != "" {
		rel := filepath.FromSlash(f.CopyTo)
		if !filepath.IsLocal(rel) {
			return "", fmt.Errorf("%w: copyto %q of %s", ErrDestinationEscape, f.CopyTo, f.Name)
		}
		return filepath.Clean(rel), nil
	}
	if local != "" {
		return local, nil
	}
	return stripParents(f.Name), nil
}

// stripParents drops leading ".." segments and any root so a source outside
// the files root still lands inside the export root.
func stripParents(name string) string {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
	clean = strings.TrimLeft(clean, "/")
	if vol := filepath.VolumeName(clean); vol != "" {
		clean = strings.TrimLeft(clean[len(vol):], "/")
	}
	for clean == ".." || strings.HasPrefix(clean, "../") {
		clean = strings.TrimPrefix(strings.TrimPrefix(clean, ".."), "/")
	}
	return filepath.FromSlash(clean)
}

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, mode)
}
