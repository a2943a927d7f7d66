package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/domain/entities"
)

func newRelateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relate",
		Short: "Manage relationships between entities",
	}

	cmd.AddCommand(
		newRelateAddCmd(),
		newRelateRemoveCmd(),
	)

	return cmd
}

func newRelateAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <source-id> <type> <target-id>",
		Short: "Add a relationship",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				source := d.Graph.GetEntity(args[0])
				if source == nil {
					return fmt.Errorf("entity not found: %s", args[0])
				}
				target := d.Graph.GetEntity(args[2])
				if target == nil {
					return fmt.Errorf("entity not found: %s", args[2])
				}

				id := d.Graph.AddRelationship(&entities.Relationship{
					SourceID:   source.ID,
					SourceType: source.Type,
					TargetID:   target.ID,
					TargetType: target.Type,
					Type:       entities.RelationType(args[1]),
				})

				if _, err := d.Archive.SaveSnapshot(cmd.Context(), d.Graph.Export(), fmt.Sprintf("add relationship %s", id)); err != nil {
					return fmt.Errorf("archiving snapshot: %w", err)
				}

				fmt.Printf("Added relationship: %s\n", id)
				return nil
			})
		},
	}
}

func newRelateRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <relationship-id>",
		Short: "Remove a relationship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := d.EntityHandler.HandleRemoveRelationship(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Removed relationship: %s\n", args[0])
				return nil
			})
		},
	}
}
