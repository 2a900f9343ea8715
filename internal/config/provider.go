// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"path/filepath"
)

type (
	// LoadOptions selects the configuration source.
	LoadOptions struct {
		// ConfigFilePath is the --config file; when set no other file is read.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory when set.
		ConfigDirPath string
	}

	// Provider is how commands obtain configuration. Tests substitute their
	// own implementation through cmd.Dependencies.
	Provider interface {
		// Load returns the configuration with defaults and fallbacks applied.
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
		// Path returns the config file Load reads. When none exists it returns
		// the path a new file would be created at and exists=false.
		Path(opts LoadOptions) (path string, exists bool, err error)
	}

	fileProvider struct{}
)

// NewProvider returns the Provider backed by config.cue files.
func NewProvider() Provider {
	return fileProvider{}
}

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}

func (fileProvider) Path(opts LoadOptions) (string, bool, error) {
	path, err := locateWithOptions(opts)
	if err != nil {
		return "", false, err
	}
	if path != "" {
		return path, true, nil
	}
	dir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", false, err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), false, nil
}
