// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestAddLibrary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opts := LoadOptions{ConfigDirPath: dir}
	lib := Library{Name: "base", Location: "/lib/base", SyncURI: "https://example.com/base.git", SyncType: SyncTypeGit, AutoSync: true}

	path, err := AddLibrary(context.Background(), opts, lib)
	if err != nil {
		t.Fatalf("AddLibrary() returned error: %v", err)
	}
	if want := filepath.Join(dir, "config.cue"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(cfg.Libraries) != 1 || cfg.Libraries[0] != lib {
		t.Fatalf("libraries = %+v, want [%+v]", cfg.Libraries, lib)
	}

	_, err = AddLibrary(context.Background(), opts, Library{Name: "base", Location: "/elsewhere"})
	var existsErr *LibraryExistsError
	if !errors.As(err, &existsErr) || existsErr.Name != "base" {
		t.Fatalf("expected LibraryExistsError, got %v", err)
	}
	if !errors.Is(err, ErrLibraryExists) {
		t.Error("error should wrap ErrLibraryExists")
	}
}

func TestAddLibrary_Invalid(t *testing.T) {
	t.Parallel()

	_, err := AddLibrary(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()}, Library{Name: "x", SyncType: SyncTypeGit})
	if !errors.Is(err, ErrInvalidLibrary) {
		t.Fatalf("expected ErrInvalidLibrary, got %v", err)
	}
}
