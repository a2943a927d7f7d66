package handlers

import (
	"context"
	"fmt"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/domain/ports"
)

// EntityHandler handles single-record graph edits.
type EntityHandler struct {
	graph   *graph.Graph
	archive ports.Archive
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(g *graph.Graph, archive ports.Archive) *EntityHandler {
	return &EntityHandler{
		graph:   g,
		archive: archive,
	}
}

// HandleAdd inserts one entity and archives the result.
func (h *EntityHandler) HandleAdd(ctx context.Context, e *entities.Entity) (string, error) {
	id := h.graph.AddEntity(e)
	if err := h.snapshot(ctx, fmt.Sprintf("add entity %s", id)); err != nil {
		return "", err
	}
	return id, nil
}

// HandleRemove removes one entity, cascading to its relationships.
func (h *EntityHandler) HandleRemove(ctx context.Context, id string) error {
	if !h.graph.RemoveEntity(id) {
		return fmt.Errorf("entity not found: %s", id)
	}
	return h.snapshot(ctx, fmt.Sprintf("remove entity %s", id))
}

// HandleRemoveRelationship removes one relationship.
func (h *EntityHandler) HandleRemoveRelationship(ctx context.Context, id string) error {
	if !h.graph.RemoveRelationship(id) {
		return fmt.Errorf("relationship not found: %s", id)
	}
	return h.snapshot(ctx, fmt.Sprintf("remove relationship %s", id))
}

func (h *EntityHandler) snapshot(ctx context.Context, note string) error {
	if _, err := h.archive.SaveSnapshot(ctx, h.graph.Export(), note); err != nil {
		return fmt.Errorf("archiving snapshot: %w", err)
	}
	return nil
}
