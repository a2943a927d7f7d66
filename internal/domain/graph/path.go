package graph

import "github.com/civistack/canvass/internal/domain/entities"

// DefaultMaxDepth bounds path searches when the caller does not supply
// a positive depth.
const DefaultMaxDepth = 6

// Path is a walk through the graph. Nodes is ordered source to target
// inclusive; Edges holds the relationship traversed between each
// consecutive node pair, so len(Edges) == len(Nodes)-1.
type Path struct {
	Nodes []entities.Entity       `json:"nodes"`
	Edges []entities.Relationship `json:"edges"`
}

// FindPath runs a breadth-first search for the shortest path between
// two entities, treating every relationship as traversable in either
// direction. The depth limit is inclusive: a path of exactly maxDepth
// edges is accepted. Returns nil when either endpoint is unknown or no
// path exists within the limit.
func (g *Graph) FindPath(sourceID, targetID string, maxDepth int) *Path {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	source, ok := g.entities[sourceID]
	if !ok {
		return nil
	}
	if _, ok := g.entities[targetID]; !ok {
		return nil
	}
	if sourceID == targetID {
		return &Path{
			Nodes: []entities.Entity{*source.Clone()},
			Edges: []entities.Relationship{},
		}
	}

	// visited maps each reached entity to the entity and relationship
	// it was reached through, for path reconstruction.
	type hop struct {
		prev string
		rel  string
	}
	visited := map[string]hop{sourceID: {}}
	frontier := []string{sourceID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, bucket := range []map[string]struct{}{g.outgoing[id], g.incoming[id]} {
				for relID := range bucket {
					r := g.relationships[relID]
					otherID := r.TargetID
					if otherID == id {
						otherID = r.SourceID
					}
					if _, seen := visited[otherID]; seen {
						continue
					}
					// Dangling endpoints have adjacency entries but no
					// entity record; they cannot appear on a path.
					if _, ok := g.entities[otherID]; !ok {
						continue
					}
					visited[otherID] = hop{prev: id, rel: relID}
					if otherID == targetID {
						return g.buildPathLocked(sourceID, targetID, func(id string) (string, string) {
							h := visited[id]
							return h.prev, h.rel
						})
					}
					next = append(next, otherID)
				}
			}
		}
		frontier = next
	}
	return nil
}

// buildPathLocked walks the visited chain back from target to source
// and reverses it into an ordered path.
func (g *Graph) buildPathLocked(sourceID, targetID string, hopFor func(string) (prev, rel string)) *Path {
	var nodes []entities.Entity
	var edges []entities.Relationship

	id := targetID
	for id != sourceID {
		prev, relID := hopFor(id)
		nodes = append(nodes, *g.entities[id].Clone())
		edges = append(edges, *g.relationships[relID].Clone())
		id = prev
	}
	nodes = append(nodes, *g.entities[sourceID].Clone())

	reverse(nodes)
	reverse(edges)
	return &Path{Nodes: nodes, Edges: edges}
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
