package graph

import "github.com/civistack/canvass/internal/domain/entities"

// Snapshot is the serialized form of the whole graph, sufficient to
// reconstruct every entity, relationship and derived index.
type Snapshot struct {
	Entities      []entities.Entity       `json:"entities"`
	Relationships []entities.Relationship `json:"relationships"`
}

// Export returns an order-stable dump of the graph, sorted by id.
func (g *Graph) Export() *Snapshot {
	return &Snapshot{
		Entities:      g.AllEntities(),
		Relationships: g.AllRelationships(),
	}
}

// Load clears all entities, relationships and indices, then inserts
// every record from the snapshot through the same code paths as
// AddEntity and AddRelationship, so indices are rebuilt consistently
// and ids and timestamps are preserved as given. A nil snapshot or nil
// slices reset the graph to empty.
func (g *Graph) Load(snap *Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.resetLocked()
	if snap == nil {
		return
	}
	for i := range snap.Entities {
		g.addEntityLocked(snap.Entities[i].Clone())
	}
	for i := range snap.Relationships {
		g.addRelationshipLocked(snap.Relationships[i].Clone())
	}
}
