package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/domain/graph"
)

func newPathCmd() *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "path <source-id> <target-id>",
		Short: "Find the shortest path between two entities",
		Long:  "Runs a breadth-first search over relationships in both directions and prints one shortest path.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				path, err := d.QueryHandler.HandlePath(args[0], args[1], maxDepth)
				if err != nil {
					return err
				}
				if path == nil {
					fmt.Printf("No path found within %d hops.\n", maxDepth)
					return nil
				}
				printPath(path)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&maxDepth, "depth", "d", graph.DefaultMaxDepth, "Maximum number of hops")

	return cmd
}

func printPath(path *graph.Path) {
	fmt.Printf("Path with %d hop(s):\n", len(path.Edges))
	for i, node := range path.Nodes {
		fmt.Printf("%s [%s] %s\n", node.ID, node.Type, node.Name)
		if i < len(path.Edges) {
			fmt.Printf("  | %s\n", path.Edges[i].Type)
		}
	}
}
