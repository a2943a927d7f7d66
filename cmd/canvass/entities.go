package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
)

func newEntitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Manage graph entities",
	}

	cmd.AddCommand(
		newEntitiesListCmd(),
		newEntitiesAddCmd(),
		newEntitiesRemoveCmd(),
	)

	return cmd
}

func newEntitiesListCmd() *cobra.Command {
	var (
		entityType string
		limit      int
		offset     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := graph.Params{
				Offset: offset,
				Limit:  limit,
			}
			if entityType != "" {
				params.EntityTypes = []entities.EntityType{entities.EntityType(entityType)}
			} else {
				params.EntityTypes = entities.DefaultEntityTypes
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				printResult(d.QueryHandler.Handle(params))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&entityType, "type", "t", "", "Entity type to list (defaults to all built-in types)")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of entities")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of entities to skip")

	return cmd
}

func newEntitiesAddCmd() *cobra.Command {
	var (
		entityType string
		aliases    []string
		party      string
		category   string
		county     string
		district   string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if entityType == "" {
				return fmt.Errorf("entity type is required (use --type)")
			}

			entity := &entities.Entity{
				Type:    entities.EntityType(entityType),
				Name:    args[0],
				Aliases: aliases,
				Metadata: entities.Metadata{
					Party:    party,
					Category: category,
					County:   county,
					District: district,
				},
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				id, err := d.EntityHandler.HandleAdd(cmd.Context(), entity)
				if err != nil {
					return err
				}
				fmt.Printf("Added entity: %s\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&entityType, "type", "t", "", "Entity type (required)")
	cmd.Flags().StringSliceVarP(&aliases, "alias", "a", nil, "Alias (repeatable)")
	cmd.Flags().StringVar(&party, "party", "", "Party affiliation")
	cmd.Flags().StringVar(&category, "category", "", "Issue category")
	cmd.Flags().StringVar(&county, "county", "", "County")
	cmd.Flags().StringVar(&district, "district", "", "District")

	return cmd
}

func newEntitiesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entity-id>",
		Short: "Remove an entity and all its relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := d.EntityHandler.HandleRemove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Removed entity: %s\n", args[0])
				return nil
			})
		},
	}
}
