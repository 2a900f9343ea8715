// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coresolve/coresolve/internal/config"
)

// newConfigCommand creates the `coresolve config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage coresolve configuration",
		Long: `Manage coresolve configuration.

Configuration is stored in:
  - Linux: ~/.config/coresolve/config.cue
  - macOS: ~/Library/Application Support/coresolve/config.cue
  - Windows: %APPDATA%\coresolve\config.cue

CORESOLVE_CONFIG_DIR replaces the platform directory. A config.cue in the
working directory is used when the platform file does not exist. Every key
can be overridden with a CORESOLVE_<KEY> environment variable, e.g.
CORESOLVE_BUILD_ROOT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, exists, err := app.Config.Path(app.loadOptions())
			if err != nil {
				return err
			}
			if !exists {
				fmt.Fprintf(app.stdout, "%s %s\n", path, SubtitleStyle.Render("(not created yet)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			src, err := config.GenerateCUE(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, src)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(newAddLibraryCommand(app))

	return cfgCmd
}

func newAddLibraryCommand(app *App) *cobra.Command {
	var (
		lib      config.Library
		syncType string
		noSync   bool
	)
	cmd := &cobra.Command{
		Use:   "add-library <name> [sync-uri]",
		Short: "Register a core library in the configuration file",
		Long: `Register a core library in the configuration file.

The library is recorded only; coresolve never fetches it. Without --location
it is expected below library_root/<name>.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib.Name = args[0]
			if len(args) == 2 {
				lib.SyncURI = args[1]
			}
			lib.SyncType = config.SyncType(syncType)
			lib.AutoSync = !noSync

			path, err := config.AddLibrary(cmd.Context(), app.loadOptions(), lib)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s added library %s to %s\n",
				SuccessStyle.Render("✓"), KeyStyle.Render(lib.Name), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&lib.Location, "location", "", "directory holding the library's cores")
	cmd.Flags().StringVar(&syncType, "sync-type", "", "how the library is synced (git or local)")
	cmd.Flags().BoolVar(&noSync, "no-auto-sync", false, "exclude the library from automatic syncing")
	return cmd
}

func (a *App) showConfig(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	w := a.stdout
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, exists, err := a.Config.Path(a.loadOptions())
	if err != nil || !exists {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	for _, kv := range [][2]string{
		{"build_root", cfg.BuildRoot},
		{"cache_root", cfg.CacheRoot},
		{"library_root", cfg.LibraryRoot},
		{"log_level", cfg.LogLevel.String()},
	} {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render(kv[0]), SuccessStyle.Render(kv[1]))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("libraries"))
	if len(cfg.Libraries) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, lib := range cfg.Libraries {
		details := []string{lib.Location}
		if lib.SyncURI != "" {
			details = append(details, "sync_uri="+lib.SyncURI)
		}
		if lib.SyncType != "" {
			details = append(details, "sync_type="+lib.SyncType.String())
		}
		details = append(details, fmt.Sprintf("auto_sync=%t", lib.AutoSync))
		fmt.Fprintf(w, "  - %s %s\n", SuccessStyle.Render(lib.Name), SubtitleStyle.Render(strings.Join(details, " ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("search roots"))
	roots := cfg.LibraryRoots()
	if len(roots) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for i, root := range roots {
		fmt.Fprintf(w, "  %d. %s\n", i+1, root)
	}
	return nil
}
