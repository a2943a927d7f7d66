package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
)

func newQueryCmd() *cobra.Command {
	var (
		entityTypes []string
		entityIDs   []string
		namePattern string
		relTypes    []string
		direction   string
		limit       int
		offset      int
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the knowledge graph",
		Long:  "Filters entities by type, id and name pattern, optionally expanding one hop along matching relationships.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if direction != "" && !isValidDirection(direction) {
				return fmt.Errorf("invalid direction %q, valid directions: %v", direction, validDirections)
			}

			params := graph.Params{
				NamePattern: namePattern,
				EntityIDs:   entityIDs,
				Direction:   graph.Direction(direction),
				Offset:      offset,
				Limit:       limit,
			}
			for _, t := range entityTypes {
				params.EntityTypes = append(params.EntityTypes, entities.EntityType(t))
			}
			for _, t := range relTypes {
				params.RelationshipTypes = append(params.RelationshipTypes, entities.RelationType(t))
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				printResult(d.QueryHandler.Handle(params))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&entityTypes, "type", "t", nil, "Filter by entity type (candidate, office, jurisdiction, issue, precinct, organization)")
	cmd.Flags().StringSliceVar(&entityIDs, "id", nil, "Filter by entity id")
	cmd.Flags().StringVarP(&namePattern, "name", "n", "", "Filter by name pattern (case-insensitive substring)")
	cmd.Flags().StringSliceVarP(&relTypes, "rel", "r", nil, "Expand along relationships of these types")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "Traversal direction (outgoing, incoming, both)")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultQueryLimit, "Maximum number of base entities")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of base entities to skip")

	return cmd
}

func printResult(res *graph.Result) {
	if len(res.Entities) == 0 {
		fmt.Println("No entities found.")
		return
	}

	fmt.Printf("Found %d of %d entities (%.2fms):\n\n", len(res.Entities), res.Meta.TotalEntities, res.Meta.QueryTimeMS)
	for _, e := range res.Entities {
		printEntity(&e)
	}

	if len(res.Relationships) > 0 {
		fmt.Printf("\nRelationships (%d):\n", len(res.Relationships))
		for _, r := range res.Relationships {
			fmt.Printf("  %s -[%s]-> %s\n", r.SourceID, r.Type, r.TargetID)
		}
	}
}

func printEntity(e *entities.Entity) {
	fmt.Printf("- %s [%s] %s\n", e.ID, e.Type, e.Name)
	if len(e.Aliases) > 0 {
		fmt.Printf("  Aliases: %v\n", e.Aliases)
	}
	if e.Metadata.Party != "" {
		fmt.Printf("  Party: %s\n", e.Metadata.Party)
	}
	if e.Metadata.District != "" {
		fmt.Printf("  District: %s\n", e.Metadata.District)
	}
	if e.Metadata.County != "" {
		fmt.Printf("  County: %s\n", e.Metadata.County)
	}
}

func isValidDirection(d string) bool {
	for _, valid := range validDirections {
		if d == valid {
			return true
		}
	}
	return false
}
