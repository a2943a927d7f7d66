package handlers

import (
	"fmt"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
)

// QueryHandler handles graph queries and lookups.
type QueryHandler struct {
	graph *graph.Graph
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(g *graph.Graph) *QueryHandler {
	return &QueryHandler{graph: g}
}

// Handle runs a filtered graph query.
func (h *QueryHandler) Handle(params graph.Params) *graph.Result {
	return h.graph.Query(params)
}

// HandlePath finds a shortest path between two entities.
func (h *QueryHandler) HandlePath(sourceID, targetID string, maxDepth int) (*graph.Path, error) {
	if h.graph.GetEntity(sourceID) == nil {
		return nil, fmt.Errorf("entity not found: %s", sourceID)
	}
	if h.graph.GetEntity(targetID) == nil {
		return nil, fmt.Errorf("entity not found: %s", targetID)
	}
	return h.graph.FindPath(sourceID, targetID, maxDepth), nil
}

// HandleConnections lists an entity's relationships with both endpoints
// resolved.
func (h *QueryHandler) HandleConnections(entityID string, relTypes ...entities.RelationType) ([]graph.Connection, error) {
	if h.graph.GetEntity(entityID) == nil {
		return nil, fmt.Errorf("entity not found: %s", entityID)
	}
	return h.graph.Connections(entityID, relTypes...), nil
}

// HandleCandidates lists candidates running for an office.
func (h *QueryHandler) HandleCandidates(officeID string) []entities.Entity {
	return h.graph.CandidatesForOffice(officeID)
}

// HandleIssues lists issues salient in a jurisdiction.
func (h *QueryHandler) HandleIssues(jurisdictionID string) []entities.Entity {
	return h.graph.IssuesForArea(jurisdictionID)
}

// HandlePrecincts lists precincts a candidate has campaigned in.
func (h *QueryHandler) HandlePrecincts(candidateID string) []entities.Entity {
	return h.graph.CampaignedPrecincts(candidateID)
}

// HandleStats returns graph counts broken down by type.
func (h *QueryHandler) HandleStats() graph.Stats {
	return h.graph.Stats()
}
