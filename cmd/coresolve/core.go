// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/coresolve/coresolve/pkg/coredesc"
)

// coreQuery evaluates one aspect of a core and returns the value to print.
type coreQuery func(ctx context.Context, core *coredesc.Descriptor, flags coredesc.Flags) (any, error)

// newCoreCommand creates the `coresolve core` command tree.
func newCoreCommand(app *App) *cobra.Command {
	coreCmd := &cobra.Command{
		Use:   "core",
		Short: "Inspect a core for a target and tool",
		Long: `Inspect a core for a target and tool.

<core> is either a path to a .core file or a core name such as
acme:ip:uart or ">=acme:ip:uart:1.2", looked up in the configured libraries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	coreCmd.AddCommand(&cobra.Command{
		Use:   "info <core>",
		Short: "Show a summary of a core",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := app.openCore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, core.Info())
			return nil
		},
	})

	coreCmd.AddCommand(newFilesCommand(app))
	coreCmd.AddCommand(newDependsCommand(app))

	queries := []struct {
		use   string
		short string
		run   coreQuery
	}{
		{"flags", "Show the flags and default tool a target declares", func(_ context.Context, core *coredesc.Descriptor, f coredesc.Flags) (any, error) {
			return core.TargetFlags(f.TargetName()), nil
		}},
		{"generators", "Show the generators a core declares", func(_ context.Context, core *coredesc.Descriptor, _ coredesc.Flags) (any, error) {
			return core.Generators(), nil
		}},
		{"generate", "Show the generator instances of a target", func(_ context.Context, core *coredesc.Descriptor, f coredesc.Flags) (any, error) {
			return core.GenerateInstances(f)
		}},
		{"parameters", "Show the parameters a target exposes", func(_ context.Context, core *coredesc.Descriptor, f coredesc.Flags) (any, error) {
			return core.Parameters(f)
		}},
		{"scripts", "Show the hook scripts of a target", func(_ context.Context, core *coredesc.Descriptor, f coredesc.Flags) (any, error) {
			root, err := filepath.Abs(core.FilesRoot)
			if err != nil {
				return nil, err
			}
			return core.Scripts(root, f)
		}},
		{"tool-options", "Show the options of a target for the selected tool", func(_ context.Context, core *coredesc.Descriptor, f coredesc.Flags) (any, error) {
			return core.ToolOptions(f)
		}},
		{"vpi", "Show the VPI modules of a target", func(_ context.Context, core *coredesc.Descriptor, f coredesc.Flags) (any, error) {
			return core.Vpi(f), nil
		}},
	}
	for _, q := range queries {
		coreCmd.AddCommand(newCoreQueryCommand(app, q.use, q.short, q.run))
	}

	var sel selectionFlags
	toplevelCmd := &cobra.Command{
		Use:   "toplevel <core>",
		Short: "Show the top-level module of a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, flags, err := app.openCoreForSelection(cmd.Context(), args[0], &sel)
			if err != nil {
				return err
			}
			top, err := core.Toplevel(flags)
			if err != nil {
				return err
			}
			if sel.json {
				return app.printValue(top, true)
			}
			fmt.Fprintln(app.stdout, top)
			return nil
		},
	}
	sel.register(toplevelCmd)
	coreCmd.AddCommand(toplevelCmd)

	return coreCmd
}

func newCoreQueryCommand(app *App, use, short string, run coreQuery) *cobra.Command {
	var sel selectionFlags
	cmd := &cobra.Command{
		Use:   use + " <core>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, flags, err := app.openCoreForSelection(cmd.Context(), args[0], &sel)
			if err != nil {
				return err
			}
			v, err := run(cmd.Context(), core, flags)
			if err != nil {
				return err
			}
			return app.printValue(v, sel.json)
		},
	}
	sel.register(cmd)
	return cmd
}

func newFilesCommand(app *App) *cobra.Command {
	var sel selectionFlags
	cmd := &cobra.Command{
		Use:   "files <core>",
		Short: "List the files of a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, flags, err := app.openCoreForSelection(cmd.Context(), args[0], &sel)
			if err != nil {
				return err
			}
			files := core.Files(flags)
			if sel.json {
				return app.printValue(files, true)
			}
			t := app.newTable([]any{"Name", "File type", "Logical name", "Copy to", "Include"})
			for _, f := range files {
				include := ""
				if f.IsIncludeFile {
					include = "yes"
				}
				t.AppendRow([]any{f.Name, f.FileType, f.LogicalName, f.CopyTo, include})
			}
			t.Render()
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}

func newDependsCommand(app *App) *cobra.Command {
	var sel selectionFlags
	cmd := &cobra.Command{
		Use:   "depends <core>",
		Short: "List the direct dependencies of a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, flags, err := app.openCoreForSelection(cmd.Context(), args[0], &sel)
			if err != nil {
				return err
			}
			deps := core.Depends(flags)
			names := make([]string, len(deps))
			for i, d := range deps {
				names[i] = d.String()
			}
			if sel.json {
				return app.printValue(names, true)
			}
			for _, n := range names {
				fmt.Fprintln(app.stdout, n)
			}
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}

// openCoreForSelection opens a core and builds the runtime flags for it.
func (a *App) openCoreForSelection(ctx context.Context, arg string, sel *selectionFlags) (*coredesc.Descriptor, coredesc.Flags, error) {
	core, err := a.openCore(ctx, arg)
	if err != nil {
		return nil, coredesc.Flags{}, err
	}
	flags, err := sel.flags(core)
	if err != nil {
		return nil, coredesc.Flags{}, err
	}
	return core, flags, nil
}
