// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/coresolve/coresolve/pkg/coredesc"
	"github.com/coresolve/coresolve/pkg/export"
)

func newExportCommand(app *App) *cobra.Command {
	var (
		sel  selectionFlags
		deps bool
	)
	cmd := &cobra.Command{
		Use:   "export <core> <dest>",
		Short: "Copy the files of a target into a directory",
		Long: `Copy the files of a target into a directory.

With --deps every core of the dependency closure is exported into its own
subdirectory of <dest>, named after the core.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dest := args[1]

			if !deps {
				core, flags, err := app.openCoreForSelection(ctx, args[0], &sel)
				if err != nil {
					return err
				}
				return app.exportCore(cmd, core, flags, dest)
			}

			core, db, err := app.openCoreWithDB(ctx, args[0])
			if err != nil {
				return err
			}
			flags, err := sel.flags(core)
			if err != nil {
				return err
			}
			closure, err := db.Resolve(ctx, core, flags)
			if err != nil {
				return err
			}
			depFlags := coredesc.Flags{Tool: flags.Tool, Custom: flags.Custom}
			for _, c := range closure {
				f := depFlags
				if c == core {
					f = flags
				}
				if err := app.exportCore(cmd, c, f, filepath.Join(dest, c.ID.Sanitized())); err != nil {
					return err
				}
			}
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&deps, "deps", false, "export the whole dependency closure")
	return cmd
}

func (a *App) exportCore(cmd *cobra.Command, core *coredesc.Descriptor, flags coredesc.Flags, dest string) error {
	res, err := export.Export(cmd.Context(), export.Request{
		Files:      core.Files(flags),
		FilesRoot:  core.FilesRoot,
		DestRoot:   dest,
		IsToplevel: flags.IsToplevel,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s %s: %d files exported to %s\n",
		SuccessStyle.Render("✓"), KeyStyle.Render(core.ID.String()), len(res.Files), dest)
	return nil
}
