package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
)

func newConnectionsCmd() *cobra.Command {
	var relTypes []string

	cmd := &cobra.Command{
		Use:   "connections <entity-id>",
		Short: "List an entity's relationships",
		Long:  "Lists every relationship touching the entity, with the connected entity resolved for each.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var types []entities.RelationType
			for _, t := range relTypes {
				types = append(types, entities.RelationType(t))
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				conns, err := d.QueryHandler.HandleConnections(args[0], types...)
				if err != nil {
					return err
				}
				if len(conns) == 0 {
					fmt.Println("No connections found.")
					return nil
				}

				fmt.Printf("Found %d connection(s):\n", len(conns))
				for _, conn := range conns {
					printConnection(args[0], conn)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&relTypes, "rel", "r", nil, "Filter by relationship type")

	return cmd
}

func printConnection(entityID string, conn graph.Connection) {
	other := "(unknown)"
	if conn.Entity != nil {
		other = fmt.Sprintf("%s [%s] %s", conn.Entity.ID, conn.Entity.Type, conn.Entity.Name)
	}
	if conn.Direction == graph.DirectionOutgoing {
		fmt.Printf("  %s -[%s]-> %s\n", entityID, conn.Relationship.Type, other)
	} else {
		fmt.Printf("  %s <-[%s]- %s\n", entityID, conn.Relationship.Type, other)
	}
}
