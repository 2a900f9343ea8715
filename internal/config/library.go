// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrLibraryExists is returned by AddLibrary when the name is already taken.
var ErrLibraryExists = errors.New("library already exists")

// LibraryExistsError names the library that AddLibrary refused to add.
type LibraryExistsError struct {
	Name string
	Path string
}

// Error implements the error interface.
func (e *LibraryExistsError) Error() string {
	return fmt.Sprintf("not adding library: %s already exists in %s", e.Name, e.Path)
}

// Unwrap returns ErrLibraryExists for errors.Is() compatibility.
func (e *LibraryExistsError) Unwrap() error { return ErrLibraryExists }

// AddLibrary records lib in the config file selected by opts and returns the
// path written. When no config file exists yet, one is created in the config
// directory. The file keeps only what the user configured; fallbacks are not
// written back.
func AddLibrary(ctx context.Context, opts LoadOptions, lib Library) (string, error) {
	if valid, errs := lib.IsValid(); !valid {
		return "", errs[0]
	}

	cfg, path, err := loadFileConfig(ctx, opts)
	if err != nil {
		return "", err
	}
	if path == "" {
		cfgDir, dirErr := configDirWithOverride(opts.ConfigDirPath)
		if dirErr != nil {
			return "", dirErr
		}
		path = filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	}

	for _, existing := range cfg.Libraries {
		if existing.Name == lib.Name {
			return path, &LibraryExistsError{Name: lib.Name, Path: path}
		}
	}

	cfg.Libraries = append(cfg.Libraries, lib)
	if err := SaveTo(cfg, path); err != nil {
		return "", err
	}

	return path, nil
}
