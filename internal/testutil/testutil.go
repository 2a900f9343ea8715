// SPDX-License-Identifier: MPL-2.0

// Package testutil builds core trees and isolated home directories for tests.
// Helpers fail the test on error instead of returning one.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteCore writes a minimal core file named after vlnv below dir and returns
// its path. Extra YAML is appended after the name line.
func WriteCore(t testing.TB, dir, file, vlnv, extra string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	MustWriteFile(t, path, "CAPI=2:\nname: "+vlnv+"\n"+extra)
	return path
}

// IsolateHome points the home directory at a fresh temp dir and clears the
// XDG and coresolve directory variables, so config fallbacks derive from it.
// It returns the home directory. Like t.Setenv it cannot be used in parallel
// tests.
func IsolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
		t.Setenv("APPDATA", "")
	} else {
		t.Setenv("HOME", home)
	}
	for _, key := range []string{"XDG_CONFIG_HOME", "XDG_CACHE_HOME", "XDG_DATA_HOME", "CORESOLVE_CONFIG_DIR"} {
		t.Setenv(key, "")
	}
	return home
}
