// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/coresolve/coresolve/internal/issue"
	"github.com/coresolve/coresolve/internal/testutil"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.BuildRoot != "build" {
		t.Errorf("BuildRoot = %q, want build", cfg.BuildRoot)
	}
	if cfg.LogLevel != LogLevelInfo {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if len(cfg.CoresRoot) != 0 || len(cfg.Libraries) != 0 {
		t.Errorf("expected no roots or libraries, got %v %v", cfg.CoresRoot, cfg.Libraries)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config is invalid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is only used on Linux")
	}
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(ConfigDirEnv, tmpDir)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != tmpDir {
		t.Errorf("ConfigDir() = %s, want %s", dir, tmpDir)
	}
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.BuildRoot != "build" {
		t.Errorf("BuildRoot = %q, want build", cfg.BuildRoot)
	}
	if want := filepath.Join("/xdg/cache", AppName); cfg.CacheRoot != want {
		t.Errorf("CacheRoot = %q, want %q", cfg.CacheRoot, want)
	}
	if want := filepath.Join("/xdg/data", AppName); cfg.LibraryRoot != want {
		t.Errorf("LibraryRoot = %q, want %q", cfg.LibraryRoot, want)
	}
	if cfg.LogLevel != LogLevelInfo {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_HomeFallbacks(t *testing.T) {
	home := testutil.IsolateHome(t)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if want := filepath.Join(home, ".cache", AppName); cfg.CacheRoot != want {
		t.Errorf("CacheRoot = %q, want %q", cfg.CacheRoot, want)
	}
	if want := filepath.Join(home, ".local", "share", AppName); cfg.LibraryRoot != want {
		t.Errorf("LibraryRoot = %q, want %q", cfg.LibraryRoot, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	dir := t.TempDir()
	writeConfig(t, dir, `
build_root: "/work/build"
cores_root: ["/cores/a", "/cores/b"]
log_level: "debug"
libraries: [
	{name: "base", sync_uri: "https://example.com/base.git", sync_type: "git"},
	{name: "local", location: "/opt/local-cores", auto_sync: false},
]
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.BuildRoot != "/work/build" {
		t.Errorf("BuildRoot = %q", cfg.BuildRoot)
	}
	if !slices.Equal(cfg.CoresRoot, []string{"/cores/a", "/cores/b"}) {
		t.Errorf("CoresRoot = %v", cfg.CoresRoot)
	}
	if cfg.LogLevel != LogLevelDebug {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if len(cfg.Libraries) != 2 {
		t.Fatalf("got %d libraries, want 2", len(cfg.Libraries))
	}

	base := cfg.Libraries[0]
	if want := filepath.Join("/xdg/data", AppName, "base"); base.Location != want {
		t.Errorf("base location = %q, want %q", base.Location, want)
	}
	if !base.AutoSync {
		t.Error("auto_sync should default to true")
	}
	if base.SyncType != SyncTypeGit {
		t.Errorf("base sync type = %q, want git", base.SyncType)
	}

	local := cfg.Libraries[1]
	if local.Location != "/opt/local-cores" || local.AutoSync {
		t.Errorf("local library = %+v", local)
	}
	if local.SyncType != "" {
		t.Errorf("unset sync type should stay empty, got %q", local.SyncType)
	}
}

func TestLoad_EnvOverridesScalarKeys(t *testing.T) {
	t.Setenv(EnvPrefix+"_BUILD_ROOT", "/env/build")

	dir := t.TempDir()
	writeConfig(t, dir, `build_root: "/file/build"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.BuildRoot != "/env/build" {
		t.Errorf("BuildRoot = %q, want /env/build", cfg.BuildRoot)
	}
}

func TestLoad_CustomPath_NotFound_ReturnsError(t *testing.T) {
	t.Parallel()

	nonExistentPath := filepath.Join(t.TempDir(), "missing", "config.cue")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: nonExistentPath})
	if err == nil {
		t.Fatal("expected Load() to return error for non-existent config file")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "load configuration") {
		t.Errorf("error should contain 'load configuration', got: %s", errStr)
	}
	if !strings.Contains(errStr, "config file not found") {
		t.Errorf("error should contain 'config file not found', got: %s", errStr)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("expected error to be *issue.ActionableError")
	}
	if !slices.Contains(ae.Suggestions, "Verify the file path is correct") {
		t.Errorf("missing path suggestion, got: %v", ae.Suggestions)
	}
}

func TestLoad_InvalidFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{
			name:     "invalid CUE syntax",
			content:  `this is not valid CUE syntax {{{{`,
			contains: "load configuration",
		},
		{
			name:     "unknown key",
			content:  `systems_root: "/old"`,
			contains: "systems_root",
		},
		{
			name:     "bad log level",
			content:  `log_level: "chatty"`,
			contains: "log_level",
		},
		{
			name:     "library without name",
			content:  `libraries: [{location: "/x"}]`,
			contains: "name",
		},
		{
			name:     "duplicate library name",
			content:  `libraries: [{name: "a"}, {name: "a"}]`,
			contains: `duplicate name "a"`,
		},
		{
			name:     "git library without uri",
			content:  `libraries: [{name: "a", sync_type: "git"}]`,
			contains: "sync_uri",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err, tt.contains)
			}
		})
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProvider_Path(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := filepath.Join(dir, "config.cue")
	got, exists, err := NewProvider().Path(LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Path() returned error: %v", err)
	}
	if got != want || exists {
		t.Errorf("Path() = %q, %v; want %q, false before the file exists", got, exists, want)
	}

	path := writeConfig(t, dir, `log_level: "warn"`)
	got, exists, err = NewProvider().Path(LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Path() returned error: %v", err)
	}
	if got != path || !exists {
		t.Errorf("Path() = %q, %v; want %q, true", got, exists, path)
	}

	if _, _, err := NewProvider().Path(LoadOptions{ConfigFilePath: filepath.Join(dir, "missing.cue")}); err == nil {
		t.Error("Path() accepted a missing --config file")
	}
}

func TestGenerateCUE_LoadsBack(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		BuildRoot: "/b",
		CacheRoot: "/c",
		CoresRoot: []string{"/cores"},
		Libraries: []Library{
			{Name: "base", Location: "/lib/base", SyncURI: "https://example.com/base.git", SyncType: SyncTypeGit, AutoSync: true},
			{Name: "mine", Location: "/lib/mine", AutoSync: false},
		},
		LogLevel: LogLevelWarn,
	}

	path := filepath.Join(t.TempDir(), "nested", "config.cue")
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo() returned error: %v", err)
	}

	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		src, _ := os.ReadFile(path)
		t.Fatalf("Load() of generated file returned error: %v\n%s", err, src)
	}
	if got.BuildRoot != cfg.BuildRoot || got.CacheRoot != cfg.CacheRoot || got.LogLevel != cfg.LogLevel {
		t.Errorf("scalars differ: %+v", got)
	}
	if !slices.Equal(got.Libraries, cfg.Libraries) {
		t.Errorf("libraries = %+v, want %+v", got.Libraries, cfg.Libraries)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(ConfigDirEnv, tmpDir)

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}
	if want := filepath.Join(tmpDir, "config.cue"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	if err := os.WriteFile(path, []byte(`log_level: "error"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefaultConfig(); err != nil {
		t.Fatalf("second CreateDefaultConfig() returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `log_level: "error"` {
		t.Errorf("existing file was overwritten: %q", data)
	}
}

func TestLibraryRootsWith(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		CoresRoot: []string{"/cores/a", "/cores/b/"},
		Libraries: []Library{
			{Name: "x", Location: "/lib/x"},
			{Name: "dup", Location: "/cores/a"},
		},
	}
	env := map[string]string{CoresEnv: "/env/1" + string(filepath.ListSeparator) + "/env/2"}

	got := cfg.LibraryRootsWith(func(k string) string { return env[k] })
	want := []string{"/cores/a", "/cores/b", "/env/2", "/env/1", "/lib/x"}
	if !slices.Equal(got, want) {
		t.Errorf("LibraryRootsWith() = %v, want %v", got, want)
	}
}

func TestApplyFallbacks_LocalCoresDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, "cores"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(tmpDir)

	cfg := DefaultConfig()
	cfg.applyFallbacks(func(string) string { return "" })

	want, err := filepath.Abs("cores")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(cfg.CoresRoot, []string{want}) {
		t.Errorf("CoresRoot = %v, want [%s]", cfg.CoresRoot, want)
	}
}

func TestGenerateCUE_OmitsEmptyKeys(t *testing.T) {
	t.Parallel()

	src, err := GenerateCUE(&Config{BuildRoot: "out", Libraries: []Library{{Name: "base", AutoSync: true}}})
	if err != nil {
		t.Fatalf("GenerateCUE() error = %v", err)
	}
	norm := strings.Join(strings.Fields(src), " ")
	for _, want := range []string{`build_root: "out"`, `name: "base"`, `auto_sync: true`} {
		if !strings.Contains(norm, want) {
			t.Errorf("GenerateCUE() lacks %q:\n%s", want, src)
		}
	}
	for _, absent := range []string{"cache_root", "library_root", "cores_root", "log_level", "location"} {
		if strings.Contains(src, absent) {
			t.Errorf("GenerateCUE() writes empty key %q:\n%s", absent, src)
		}
	}
}
