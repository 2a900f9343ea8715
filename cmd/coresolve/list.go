// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

type listedCore struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Path        string `json:"path"`
}

func newListCommand(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cores found in the configured libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.database(cmd.Context())
			if err != nil {
				return err
			}

			cores := db.Cores()
			out := make([]listedCore, len(cores))
			for i, c := range cores {
				out[i] = listedCore{Name: c.ID.String(), Description: c.Description, Path: c.Path}
			}
			if asJSON {
				return app.printValue(out, true)
			}

			t := app.newTable([]any{"Core", "Description"})
			for _, c := range out {
				desc, _, _ := strings.Cut(c.Description, "\n")
				t.AppendRow([]any{c.Name, desc})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
