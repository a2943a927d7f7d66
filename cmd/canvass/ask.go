package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/application/handlers"
	"github.com/civistack/canvass/internal/domain/services"
)

func newAskCmd() *cobra.Command {
	var (
		issueLimit int
		docLimit   int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question with graph and intel context",
		Long:  "Builds a context block from the knowledge graph and retrieved intel documents, then asks the LLM.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnrichment(cmd.Context(), func(d *Deps, h *handlers.EnrichHandler) error {
				answer, err := h.HandleAsk(cmd.Context(), args[0], services.AskOptions{
					IssueLimit:    issueLimit,
					DocumentLimit: docLimit,
				})
				if err != nil {
					return err
				}

				if verbose && answer.Context != "" {
					fmt.Println("Context:")
					fmt.Println(answer.Context)
					fmt.Println()
				}
				fmt.Println(answer.Answer)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&issueLimit, "issues", services.DefaultIssueLimit, "Maximum salient issues in the context")
	cmd.Flags().IntVar(&docLimit, "docs", services.DefaultDocumentLimit, "Maximum retrieved intel documents")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the context block before the answer")

	return cmd
}
