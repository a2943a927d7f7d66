package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the graph with a JSON snapshot",
		Long:  "Loads a previously exported snapshot, replacing the current in-memory graph entirely.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				report, err := d.SnapshotHandler.HandleImport(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Imported %d entities and %d relationships.\n", report.EntityCount, report.RelationshipCount)
				fmt.Printf("Archived snapshot version %d.\n", report.SnapshotVersion)
				return nil
			})
		},
	}
}
