package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/domain/entities"
)

func newCandidatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "candidates <office-id>",
		Short: "List candidates running for an office",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				printLookup(d.QueryHandler.HandleCandidates(args[0]), "No candidates found.")
				return nil
			})
		},
	}
}

func newIssuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issues <jurisdiction-id>",
		Short: "List issues salient in a jurisdiction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				printLookup(d.QueryHandler.HandleIssues(args[0]), "No issues found.")
				return nil
			})
		},
	}
}

func newPrecinctsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "precincts <candidate-id>",
		Short: "List precincts a candidate has campaigned in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				printLookup(d.QueryHandler.HandlePrecincts(args[0]), "No precincts found.")
				return nil
			})
		},
	}
}

func printLookup(results []entities.Entity, emptyMsg string) {
	if len(results) == 0 {
		fmt.Println(emptyMsg)
		return
	}
	for _, e := range results {
		printEntity(&e)
	}
}
