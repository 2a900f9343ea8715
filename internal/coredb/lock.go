// SPDX-License-Identifier: MPL-2.0

package coredb

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/coresolve/coresolve/pkg/coredesc"
	"github.com/coresolve/coresolve/pkg/vlnv"
)

const (
	// LockFileName is the conventional lock file name next to a top-level core.
	LockFileName = "coresolve.lock"

	// LockFileVersion is the format version written by this package.
	LockFileVersion = 1
)

type (
	// LockFile pins the exact core versions of a resolved closure.
	LockFile struct {
		Version int          `toml:"version"`
		Cores   []LockedCore `toml:"cores"`
	}

	// LockedCore is one pinned core.
	LockedCore struct {
		// Name is the full identifier including version.
		Name string `toml:"name"`
		// Path is the descriptor file the core was loaded from.
		Path string `toml:"path,omitempty"`
	}
)

// NewLockFile pins every core of closure, in closure order.
func NewLockFile(closure []*coredesc.Descriptor) *LockFile {
	lf := &LockFile{Version: LockFileVersion}
	for _, core := range closure {
		lf.Cores = append(lf.Cores, LockedCore{Name: core.ID.String(), Path: core.Path})
	}
	return lf
}

// ReadLockFile decodes the lock file at path. A missing file yields
// (nil, nil).
func ReadLockFile(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read lock file: %w", err)
	}

	var lf LockFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lf); err != nil {
		return nil, &LockFileError{Path: path, Err: err}
	}
	if err := lf.validate(); err != nil {
		return nil, &LockFileError{Path: path, Err: err}
	}
	return &lf, nil
}

func (lf *LockFile) validate() error {
	if lf.Version != LockFileVersion {
		return fmt.Errorf("unsupported version %d (want %d)", lf.Version, LockFileVersion)
	}
	seen := make(map[string]bool, len(lf.Cores))
	for i, c := range lf.Cores {
		id, err := vlnv.Parse(c.Name)
		if err != nil {
			return fmt.Errorf("cores[%d]: %w", i, err)
		}
		if id.Version == "" {
			return fmt.Errorf("cores[%d]: %s has no version", i, c.Name)
		}
		if seen[id.VLN()] {
			return fmt.Errorf("cores[%d]: %s is pinned twice", i, id.VLN())
		}
		seen[id.VLN()] = true
	}
	return nil
}

// Write encodes the lock file to path, creating parent directories.
func (lf *LockFile) Write(path string) error {
	data, err := toml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("encode lock file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create lock file directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write lock file: %w", err)
	}
	return nil
}

// Pins reports whether id is the exact version pinned for its name.
func (lf *LockFile) Pins(id vlnv.ComponentID) bool {
	if lf == nil {
		return false
	}
	return slices.ContainsFunc(lf.Cores, func(c LockedCore) bool {
		pinned, err := vlnv.Parse(c.Name)
		return err == nil && vlnv.Equal(pinned, id)
	})
}

// Pinned returns the pinned identifier for the core named like id, ignoring
// its version.
func (lf *LockFile) Pinned(id vlnv.ComponentID) (vlnv.ComponentID, bool) {
	if lf == nil {
		return vlnv.ComponentID{}, false
	}
	for _, c := range lf.Cores {
		pinned, err := vlnv.Parse(c.Name)
		if err == nil && pinned.VLN() == id.VLN() {
			return pinned, true
		}
	}
	return vlnv.ComponentID{}, false
}
