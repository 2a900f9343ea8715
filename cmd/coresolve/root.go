// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for coresolve.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coresolve",
		Short: "Resolve hardware IP core descriptions",
		Long: TitleStyle.Render("coresolve") + SubtitleStyle.Render(" - Resolve hardware IP core descriptions") + `

coresolve reads CAPI2 core description files and answers what a build
needs for a given target and tool: files, dependencies, parameters, hook
scripts, generator instances, tool options and VPI modules. It can also
resolve the dependency closure of a core across your libraries, pin it in a
lock file and export the sources of a target.

` + SubtitleStyle.Render("Examples:") + `
  coresolve list                                 List all discovered cores
  coresolve core files --target sim uart.core    Files of the sim target
  coresolve core parameters --tool icarus acme:ip:uart
  coresolve deps acme:soc:top                    Dependency tree
  coresolve export acme:soc:top build/src        Copy the sources`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.setupLogging()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&app.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/coresolve/config.cue)")
	pf.StringVar(&app.lockFile, "lock-file", "", "lock file to read and write (default \"coresolve.lock\")")

	rootCmd.AddCommand(newCoreCommand(app))
	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newDepsCommand(app))
	rootCmd.AddCommand(newLockCommand(app))
	rootCmd.AddCommand(newExportCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with a non-zero status on failure.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.verbose)
		}),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
