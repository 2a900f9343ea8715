// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/coresolve/coresolve/internal/issue"
	"github.com/coresolve/coresolve/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "coresolve"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variables that override scalar keys,
	// e.g. CORESOLVE_BUILD_ROOT.
	EnvPrefix = "CORESOLVE"
	// ConfigDirEnv, when set, replaces the platform config directory.
	ConfigDirEnv = EnvPrefix + "_CONFIG_DIR"
)

//go:embed config_schema.cue
var configSchema string

var configCUE = cueutil.NewSchema([]byte(configSchema), "#Config")

// ConfigDir returns $CORESOLVE_CONFIG_DIR when set, otherwise the platform
// config directory: %APPDATA% on Windows, ~/Library/Application Support on
// macOS and $XDG_CONFIG_HOME (default ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. Environment dependent fallbacks are applied.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	cfg, resolvedPath, err := loadFileConfig(ctx, opts)
	if err != nil {
		return nil, "", err
	}

	cfg.applyFallbacks(os.Getenv)

	return cfg, resolvedPath, nil
}

// loadFileConfig loads the configuration as written, merged over defaults.
func loadFileConfig(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("build_root", defaults.BuildRoot)
	v.SetDefault("cache_root", defaults.CacheRoot)
	v.SetDefault("library_root", defaults.LibraryRoot)
	v.SetDefault("cores_root", defaults.CoresRoot)
	v.SetDefault("libraries", defaults.Libraries)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	resolvedPath, err := locateWithOptions(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", configError("load configuration", resolvedPath, err,
				"Check that the file contains valid CUE syntax",
				"Run 'coresolve config dump' to see a valid configuration")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", configError("validate configuration", resolvedPath, errs[0],
			"Libraries with sync_type \"git\" need a sync_uri")
	}
	if err := validateLibraries(cfg.Libraries); err != nil {
		return nil, "", configError("validate configuration", resolvedPath, err,
			"Give every library a unique name and location")
	}

	return &cfg, resolvedPath, nil
}

// locateWithOptions returns the config file that would be loaded for opts, or
// "" when none exists and defaults apply.
func locateWithOptions(opts LoadOptions) (string, error) {
	// A custom config file path set via --config is used exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", configError("load configuration", opts.ConfigFilePath,
				fmt.Errorf("config file not found: %s", opts.ConfigFilePath),
				"Check the path given to --config",
				"Run without --config to use the default location")
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}

	cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(cuePath) {
		return cuePath, nil
	}

	localCuePath := ConfigFileName + "." + ConfigFileExt
	if fileExists(localCuePath) {
		return localCuePath, nil
	}

	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper checks a config.cue file against #Config and merges it
// into v, keeping defaults and env overrides in place. Fields are optional,
// so the file is decoded to a generic map rather than a Config.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var configMap map[string]any
	if err := configCUE.Decode(data, &configMap, cueutil.WithFilename(path), cueutil.WithPartial()); err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// validateLibraries checks constraints that CUE cannot express: library names
// and explicit locations must be unique.
func validateLibraries(libs []Library) error {
	seenNames := make(map[string]int)
	seenLocations := make(map[string]int)

	for i, lib := range libs {
		if first, exists := seenNames[lib.Name]; exists {
			return fmt.Errorf("libraries[%d]: duplicate name %q (same as libraries[%d])", i, lib.Name, first)
		}
		seenNames[lib.Name] = i

		if lib.Location == "" {
			continue
		}
		cleanPath := filepath.Clean(lib.Location)
		if first, exists := seenLocations[cleanPath]; exists {
			return fmt.Errorf("libraries[%d]: duplicate location %q (same as libraries[%d])", i, lib.Location, first)
		}
		seenLocations[cleanPath] = i
	}

	return nil
}

// configError wraps err with the operation, the config file and hints.
func configError(op, path string, err error, suggestions ...string) error {
	ec := issue.NewErrorContext().WithOperation(op).WithResource(path).Wrap(err)
	for _, s := range suggestions {
		ec.WithSuggestion(s)
	}
	return ec.BuildError()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CreateDefaultConfig writes the default configuration to the config
// directory unless a file is already there, and returns the file path.
func CreateDefaultConfig() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(path) {
		return path, nil
	}
	if err := SaveTo(DefaultConfig(), path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveTo writes cfg as CUE to path, creating its directory.
func SaveTo(cfg *Config, path string) error {
	src, err := GenerateCUE(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE formats cfg as a config.cue file. Empty keys are left out so
// that their fallbacks keep applying.
func GenerateCUE(cfg *Config) (string, error) {
	v := cuecontext.New().Encode(cfg)
	if v.Err() != nil {
		return "", fmt.Errorf("encode config: %w", v.Err())
	}
	node := v.Syntax(cue.Concrete(true))
	if st, ok := node.(*ast.StructLit); ok {
		node = &ast.File{Decls: st.Elts}
	}
	src, err := format.Node(node, format.Simplify())
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}
	return "// coresolve configuration file\n\n" + string(src), nil
}
