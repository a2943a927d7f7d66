package graph

import (
	"sort"

	"github.com/civistack/canvass/internal/domain/entities"
)

// Connection pairs a relationship touching an entity with the direction
// it points relative to that entity and the entity at the other end.
// Entity is nil when the far endpoint is not present in the store.
type Connection struct {
	Relationship entities.Relationship `json:"relationship"`
	Direction    Direction             `json:"direction"`
	Entity       *entities.Entity      `json:"entity,omitempty"`
}

// CandidatesForOffice returns the candidate entities that are source of
// a running_for relationship targeting the office. Empty when the
// office is unknown or has no candidates.
func (g *Graph) CandidatesForOffice(officeID string) []entities.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := []entities.Entity{}
	for relID := range g.incoming[officeID] {
		r := g.relationships[relID]
		if r.Type != entities.RelationRunningFor {
			continue
		}
		e, ok := g.entities[r.SourceID]
		if !ok || e.Type != entities.EntityCandidate {
			continue
		}
		out = append(out, *e.Clone())
	}
	sortEntities(out)
	return out
}

// Connections returns every relationship touching the entity in either
// direction, optionally filtered by type, each paired with the entity
// at the other end.
func (g *Graph) Connections(entityID string, relTypes ...entities.RelationType) []Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	typeSet := make(map[entities.RelationType]struct{}, len(relTypes))
	for _, t := range relTypes {
		typeSet[t] = struct{}{}
	}
	allowed := func(t entities.RelationType) bool {
		if len(typeSet) == 0 {
			return true
		}
		_, ok := typeSet[t]
		return ok
	}

	out := []Connection{}
	appendConn := func(relID string, direction Direction, otherID string) {
		r := g.relationships[relID]
		if !allowed(r.Type) {
			return
		}
		conn := Connection{Relationship: *r.Clone(), Direction: direction}
		if other, ok := g.entities[otherID]; ok {
			conn.Entity = other.Clone()
		}
		out = append(out, conn)
	}

	for relID := range g.outgoing[entityID] {
		appendConn(relID, DirectionOutgoing, g.relationships[relID].TargetID)
	}
	for relID := range g.incoming[entityID] {
		// Self loops already appear once as outgoing.
		if g.relationships[relID].SourceID == entityID {
			continue
		}
		appendConn(relID, DirectionIncoming, g.relationships[relID].SourceID)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Relationship.ID < out[j].Relationship.ID
	})
	return out
}

// IssuesForArea returns the issue entities connected to the
// jurisdiction via salient_in relationships.
func (g *Graph) IssuesForArea(jurisdictionID string) []entities.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := []entities.Entity{}
	for relID := range g.incoming[jurisdictionID] {
		r := g.relationships[relID]
		if r.Type != entities.RelationSalientIn {
			continue
		}
		e, ok := g.entities[r.SourceID]
		if !ok || e.Type != entities.EntityIssue {
			continue
		}
		out = append(out, *e.Clone())
	}
	sortEntities(out)
	return out
}

// CampaignedPrecincts returns the precinct entities reached via
// campaigned_in relationships from the candidate. Filtering is strict
// on the stored entity type, not the relationship's denormalized target
// type: a target whose stored type drifted away from precinct is
// excluded.
func (g *Graph) CampaignedPrecincts(candidateID string) []entities.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := []entities.Entity{}
	for relID := range g.outgoing[candidateID] {
		r := g.relationships[relID]
		if r.Type != entities.RelationCampaignedIn {
			continue
		}
		e, ok := g.entities[r.TargetID]
		if !ok || e.Type != entities.EntityPrecinct {
			continue
		}
		out = append(out, *e.Clone())
	}
	sortEntities(out)
	return out
}
