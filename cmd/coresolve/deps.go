// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"

	"github.com/coresolve/coresolve/internal/coredb"
	"github.com/coresolve/coresolve/pkg/coredesc"
)

var errStaleLock = errors.New("lock file is out of date")

type resolvedCore struct {
	Name string   `json:"name"`
	Path string   `json:"path"`
	Deps []string `json:"deps"`
}

func newDepsCommand(app *App) *cobra.Command {
	var (
		sel  selectionFlags
		flat bool
	)
	cmd := &cobra.Command{
		Use:   "deps <core>",
		Short: "Show the dependency closure of a core",
		Long: `Show the dependency closure of a core as a tree.

With --flat the cores are printed one per line in build order, dependencies
first. Versions pinned in the lock file are preferred when they satisfy
the dependency constraints.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closure, err := app.resolve(cmd, args[0], &sel)
			if err != nil {
				return err
			}

			if sel.json {
				out := make([]resolvedCore, len(closure.Cores))
				for i, c := range closure.Cores {
					out[i] = resolvedCore{Name: c.ID.String(), Path: c.Path, Deps: []string{}}
					for _, d := range closure.DepsOf(c) {
						out[i].Deps = append(out[i].Deps, d.ID.String())
					}
				}
				return app.printValue(out, true)
			}

			if flat {
				for _, c := range closure.Cores {
					fmt.Fprintln(app.stdout, c.ID.String())
				}
				return nil
			}

			lw := list.NewWriter()
			lw.SetStyle(list.StyleConnectedRounded)
			lw.SetOutputMirror(app.stdout)
			appendTree(lw, closure, closure.Top())
			lw.Render()
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&flat, "flat", false, "print the closure in build order")
	return cmd
}

// appendTree adds core and its dependencies below it. A core shared by
// several dependents is listed under each of them.
func appendTree(lw list.Writer, closure *coredb.Closure, core *coredesc.Descriptor) {
	lw.AppendItem(core.ID.String())
	deps := closure.DepsOf(core)
	if len(deps) == 0 {
		return
	}
	lw.Indent()
	for _, d := range deps {
		appendTree(lw, closure, d)
	}
	lw.UnIndent()
}

func newLockCommand(app *App) *cobra.Command {
	var (
		sel    selectionFlags
		update bool
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "lock <core>",
		Short: "Pin the dependency closure of a core in a lock file",
		Long: `Pin the dependency closure of a core in a lock file.

Existing pins are kept when they still satisfy the dependency constraints;
--update resolves from scratch. --check only compares the resolution with
the lock file and fails when they differ.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ignoreLock = update
			closure, err := app.resolve(cmd, args[0], &sel)
			if err != nil {
				return err
			}

			lock := coredb.NewLockFile(closure.Cores)
			path := app.lockPath()

			if check {
				existing, err := coredb.ReadLockFile(path)
				if err != nil {
					return err
				}
				if existing == nil || !sameLock(existing, lock) {
					return &ExitError{Code: 1, Err: fmt.Errorf("%w: %s", errStaleLock, path)}
				}
				fmt.Fprintf(app.stdout, "%s %s is up to date\n", SuccessStyle.Render("✓"), path)
				return nil
			}

			if err := lock.Write(path); err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s pinned %d cores in %s\n", SuccessStyle.Render("✓"), len(lock.Cores), path)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&update, "update", false, "ignore existing pins")
	cmd.Flags().BoolVar(&check, "check", false, "fail if the lock file is out of date instead of writing it")
	cmd.MarkFlagsMutuallyExclusive("update", "check")
	return cmd
}

// resolve opens a core and resolves its dependency closure.
func (a *App) resolve(cmd *cobra.Command, arg string, sel *selectionFlags) (*coredb.Closure, error) {
	core, db, err := a.openCoreWithDB(cmd.Context(), arg)
	if err != nil {
		return nil, err
	}
	flags, err := sel.flags(core)
	if err != nil {
		return nil, err
	}
	return db.ResolveClosure(cmd.Context(), core, flags)
}

func sameLock(a, b *coredb.LockFile) bool {
	names := func(lf *coredb.LockFile) []string {
		out := make([]string, len(lf.Cores))
		for i, c := range lf.Cores {
			out[i] = c.Name
		}
		slices.Sort(out)
		return out
	}
	return slices.Equal(names(a), names(b))
}
