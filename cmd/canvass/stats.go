package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var (
		history bool
		runs    string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show graph counts and archive history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				stats := d.QueryHandler.HandleStats()
				fmt.Printf("Entities: %d\n", stats.EntityCount)
				printCounts(stats.EntitiesByType)
				fmt.Printf("Relationships: %d\n", stats.RelationshipCount)
				printCounts(stats.RelationshipsByType)

				if history {
					versions, err := d.Archive.SnapshotVersions(cmd.Context())
					if err != nil {
						return fmt.Errorf("listing snapshot versions: %w", err)
					}
					fmt.Printf("\nSnapshot versions (%d):\n", len(versions))
					for _, v := range versions {
						fmt.Printf("  v%d  %d entities, %d relationships  %s  %s\n",
							v.Version, v.EntityCount, v.RelationshipCount,
							v.CreatedAt.Format("2006-01-02 15:04"), v.Note)
					}
				}

				if cmd.Flags().Changed("runs") {
					entries, err := d.Archive.FindRuns(cmd.Context(), runs, DefaultRunsLimit)
					if err != nil {
						return fmt.Errorf("listing runs: %w", err)
					}
					fmt.Printf("\nRuns (%d):\n", len(entries))
					for _, entry := range entries {
						fmt.Printf("  #%d  %s  %s\n", entry.ID, entry.Action, entry.CreatedAt.Format("2006-01-02 15:04"))
					}
				}

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "Show archived snapshot versions")
	cmd.Flags().StringVar(&runs, "runs", "", "Show the run audit trail, optionally filtered by action")

	return cmd
}

func printCounts[K ~string](counts map[K]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %d\n", k, counts[K(k)])
	}
}
