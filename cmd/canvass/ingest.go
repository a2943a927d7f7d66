package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/application/handlers"
)

func newIngestCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest unstructured intel text",
		Long:  "Stores the file's text as an embedded intel document and extracts entities and relationships from it into the graph.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			text := strings.TrimSpace(string(data))
			if text == "" {
				return fmt.Errorf("file is empty: %s", args[0])
			}

			if source == "" {
				source = args[0]
			}

			return withEnrichment(cmd.Context(), func(d *Deps, h *handlers.EnrichHandler) error {
				result, err := h.HandleIngest(cmd.Context(), text, source)
				if err != nil {
					return err
				}
				fmt.Printf("Stored intel document: %s\n", result.DocumentID)
				fmt.Printf("Added %d entities (%d matched existing) and %d relationships.\n",
					result.EntitiesAdded, result.EntitiesMatched, result.RelationshipsAdded)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source label for the intel (defaults to the file path)")

	return cmd
}
