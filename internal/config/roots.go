// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// CoresEnv lists extra core directories, separated like PATH.
	CoresEnv = "CORESOLVE_CORES"

	// localCoresDir is used as cores_root when none is configured and it
	// exists in the working directory.
	localCoresDir = "cores"
)

// applyFallbacks fills directory keys left unset by the user with their XDG
// based defaults, completes library records and picks up ./cores.
func (c *Config) applyFallbacks(getenv func(string) string) {
	if c.BuildRoot == "" {
		c.BuildRoot = DefaultConfig().BuildRoot
	}
	if c.CacheRoot == "" {
		c.CacheRoot = xdgDir(getenv, "XDG_CACHE_HOME", ".cache")
	}
	if c.LibraryRoot == "" {
		c.LibraryRoot = xdgDir(getenv, "XDG_DATA_HOME", ".local", "share")
	}
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}

	for i := range c.Libraries {
		lib := &c.Libraries[i]
		if lib.Location == "" && c.LibraryRoot != "" {
			lib.Location = filepath.Join(c.LibraryRoot, lib.Name)
		}
	}

	if len(c.CoresRoot) == 0 {
		if info, err := os.Stat(localCoresDir); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(localCoresDir); err == nil {
				c.CoresRoot = []string{abs}
			}
		}
	}
}

// xdgDir returns $env/coresolve, or ~/<homeRel...>/coresolve when env is
// unset. It returns "" when neither can be determined.
func xdgDir(getenv func(string) string, env string, homeRel ...string) string {
	if dir := getenv(env); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{home}, homeRel...), AppName)...)
}

// LibraryRoots returns the directories searched for cores, in priority order:
// cores_root entries, then CORESOLVE_CORES entries (last listed first), then
// library locations. Duplicates keep their first position.
func (c *Config) LibraryRoots() []string {
	return c.LibraryRootsWith(os.Getenv)
}

// LibraryRootsWith is LibraryRoots with an explicit environment lookup.
func (c *Config) LibraryRootsWith(getenv func(string) string) []string {
	var roots []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if strings.TrimSpace(dir) == "" {
			return
		}
		clean := filepath.Clean(dir)
		if seen[clean] {
			return
		}
		seen[clean] = true
		roots = append(roots, clean)
	}

	for _, dir := range c.CoresRoot {
		add(dir)
	}

	envRoots := filepath.SplitList(getenv(CoresEnv))
	for i := len(envRoots) - 1; i >= 0; i-- {
		add(envRoots[i])
	}

	for _, lib := range c.Libraries {
		add(lib.Location)
	}

	return roots
}
