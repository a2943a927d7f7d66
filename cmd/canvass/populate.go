package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/application/handlers"
	"github.com/civistack/canvass/internal/domain/services"
)

func newPopulateCmd() *cobra.Command {
	var (
		format     string
		dryRun     bool
		onConflict string
	)

	cmd := &cobra.Command{
		Use:   "populate <file>...",
		Short: "Bulk-load data feeds into the graph",
		Long:  "Parses JSON graph feeds or election-results CSV files and loads their records into the knowledge graph.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy := services.ConflictStrategy(onConflict)
			if strategy != services.ConflictSkip && strategy != services.ConflictOverwrite {
				return fmt.Errorf("invalid conflict strategy %q, valid strategies: skip, overwrite", onConflict)
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				report, err := d.PopulateHandler.Handle(cmd.Context(), args, handlers.PopulateOptions{
					Format:     format,
					DryRun:     dryRun,
					OnConflict: strategy,
				})
				if err != nil {
					return err
				}
				printPopulateReport(report, dryRun)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Feed format (json, csv, auto)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without loading")
	cmd.Flags().StringVar(&onConflict, "on-conflict", "skip", "How to handle existing ids (skip, overwrite)")

	return cmd
}

func printPopulateReport(report *handlers.PopulateReport, dryRun bool) {
	verb := "Loaded"
	if dryRun {
		verb = "Validated"
	}
	fmt.Printf("%s %d entities and %d relationships from %d file(s).\n",
		verb, report.Result.EntitiesAdded, report.Result.RelationshipsAdded, len(report.Files))

	if report.Result.Skipped > 0 {
		fmt.Printf("Skipped %d existing record(s).\n", report.Result.Skipped)
	}
	for _, feedErr := range report.Result.Errors {
		fmt.Printf("  error: %s\n", feedErr.Error())
	}
	if report.SnapshotVersion > 0 {
		fmt.Printf("Archived snapshot version %d.\n", report.SnapshotVersion)
	}
}
