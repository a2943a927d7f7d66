package handlers

import (
	"context"
	"fmt"

	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/domain/ports"
	"github.com/civistack/canvass/internal/domain/services"
)

// EnrichHandler handles intel questions and intel ingestion.
type EnrichHandler struct {
	graph   *graph.Graph
	enrich  *services.EnrichmentService
	intel   *services.IntelService
	archive ports.Archive
}

// NewEnrichHandler creates a new enrich handler.
func NewEnrichHandler(g *graph.Graph, enrich *services.EnrichmentService, intel *services.IntelService, archive ports.Archive) *EnrichHandler {
	return &EnrichHandler{
		graph:   g,
		enrich:  enrich,
		intel:   intel,
		archive: archive,
	}
}

// HandleAsk answers a question with graph and intel context.
func (h *EnrichHandler) HandleAsk(ctx context.Context, question string, opts services.AskOptions) (*services.Answer, error) {
	answer, err := h.enrich.Ask(ctx, question, opts)
	if err != nil {
		return nil, fmt.Errorf("answering question: %w", err)
	}
	return answer, nil
}

// HandleIngest stores intel text, extracts graph records from it, and
// archives the updated graph when anything was added.
func (h *EnrichHandler) HandleIngest(ctx context.Context, text, source string) (*services.IntelResult, error) {
	result, err := h.intel.Ingest(ctx, text, source)
	if err != nil {
		return nil, fmt.Errorf("ingesting intel: %w", err)
	}

	if result.EntitiesAdded+result.RelationshipsAdded > 0 {
		if _, err := h.archive.SaveSnapshot(ctx, h.graph.Export(), fmt.Sprintf("ingest from %s", source)); err != nil {
			return nil, fmt.Errorf("archiving snapshot: %w", err)
		}
	}

	if err := h.archive.LogRun(ctx, "ingest", map[string]any{
		"source":        source,
		"document_id":   result.DocumentID,
		"entities":      result.EntitiesAdded,
		"matched":       result.EntitiesMatched,
		"relationships": result.RelationshipsAdded,
	}); err != nil {
		return nil, fmt.Errorf("logging run: %w", err)
	}

	return result, nil
}
