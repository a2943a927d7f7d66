package graph

import (
	"sort"
	"strings"
	"time"

	"github.com/civistack/canvass/internal/domain/entities"
)

// Direction selects which relationships a traversal follows relative to
// the base entity: edges where it is the source (outgoing), the target
// (incoming), or either (both).
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// Params filters a query. All fields are optional and combine with AND
// semantics; RelationshipTypes and Direction trigger a one-hop traversal
// that OR-expands the base result with the entities at the other end of
// each matched relationship.
type Params struct {
	EntityTypes []entities.EntityType
	EntityIDs   []string
	NamePattern string

	// Pagination over the base result, applied after filtering and
	// before traversal expansion. Order is a stable sort by id.
	Offset int
	Limit  int

	RelationshipTypes []entities.RelationType
	Direction         Direction
}

// Meta describes a query execution. TotalEntities counts the entities
// that matched the direct filters, before pagination and traversal.
type Meta struct {
	TotalEntities int     `json:"total_entities"`
	QueryTimeMS   float64 `json:"query_time_ms"`
}

// Result holds the entities and relationships a query matched.
type Result struct {
	Entities      []entities.Entity       `json:"entities"`
	Relationships []entities.Relationship `json:"relationships"`
	Meta          Meta                    `json:"metadata"`
}

// Query filters entities by type, id and name pattern, then optionally
// expands the result one hop along matching relationships. Empty params
// return an empty result; unknown filter values yield empty results,
// never an error.
func (g *Graph) Query(p Params) *Result {
	start := time.Now()

	g.mu.RLock()
	defer g.mu.RUnlock()

	res := &Result{
		Entities:      []entities.Entity{},
		Relationships: []entities.Relationship{},
	}

	baseIDs := g.matchLocked(p)
	sort.Strings(baseIDs)
	res.Meta.TotalEntities = len(baseIDs)
	baseIDs = paginate(baseIDs, p.Offset, p.Limit)

	seenEntities := make(map[string]struct{}, len(baseIDs))
	for _, id := range baseIDs {
		res.Entities = append(res.Entities, *g.entities[id].Clone())
		seenEntities[id] = struct{}{}
	}

	if len(p.RelationshipTypes) > 0 || p.Direction != "" {
		g.expandLocked(res, baseIDs, p, seenEntities)
	}

	res.Meta.QueryTimeMS = float64(time.Since(start).Microseconds()) / 1000.0
	return res
}

// matchLocked returns the ids matching the direct filters. A query with
// no direct filters matches nothing: there is no implicit "return
// everything".
func (g *Graph) matchLocked(p Params) []string {
	hasFilter := len(p.EntityIDs) > 0 || len(p.EntityTypes) > 0 || p.NamePattern != ""
	if !hasFilter {
		return nil
	}

	pattern := entities.NormalizeName(p.NamePattern)

	var candidates []string
	switch {
	case len(p.EntityIDs) > 0:
		for _, id := range p.EntityIDs {
			if _, ok := g.entities[id]; ok {
				candidates = append(candidates, id)
			}
		}
	case len(p.EntityTypes) > 0:
		for _, t := range p.EntityTypes {
			for id := range g.entitiesByType[t] {
				candidates = append(candidates, id)
			}
		}
	default:
		candidates = g.candidatesByPatternLocked(pattern)
	}

	typeSet := make(map[entities.EntityType]struct{}, len(p.EntityTypes))
	for _, t := range p.EntityTypes {
		typeSet[t] = struct{}{}
	}

	matched := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		e := g.entities[id]
		if len(p.EntityIDs) > 0 && len(typeSet) > 0 {
			if _, ok := typeSet[e.Type]; !ok {
				continue
			}
		}
		if pattern != "" && !entityMatchesPattern(e, pattern) {
			continue
		}
		matched = append(matched, id)
	}
	return matched
}

// candidatesByPatternLocked collects candidate ids for a name-only
// query. Single-token patterns go through the token index; patterns
// containing whitespace fall back to a scan, since tokens never contain
// spaces.
func (g *Graph) candidatesByPatternLocked(pattern string) []string {
	var candidates []string
	if !strings.ContainsAny(pattern, " \t") {
		for tok, bucket := range g.entitiesByToken {
			if !strings.Contains(tok, pattern) {
				continue
			}
			for id := range bucket {
				candidates = append(candidates, id)
			}
		}
		return candidates
	}
	for id := range g.entities {
		candidates = append(candidates, id)
	}
	return candidates
}

// entityMatchesPattern reports whether the normalized pattern is a
// substring of any token or of any full normalized name or alias.
func entityMatchesPattern(e *entities.Entity, pattern string) bool {
	for _, name := range e.Names() {
		if strings.Contains(entities.NormalizeName(name), pattern) {
			return true
		}
	}
	return false
}

// expandLocked performs the one-hop traversal for every base entity and
// merges the matched relationships and far-end entities into the result.
func (g *Graph) expandLocked(res *Result, baseIDs []string, p Params, seenEntities map[string]struct{}) {
	direction := p.Direction
	if direction == "" {
		direction = DirectionBoth
	}

	relTypes := make(map[entities.RelationType]struct{}, len(p.RelationshipTypes))
	for _, t := range p.RelationshipTypes {
		relTypes[t] = struct{}{}
	}

	seenRels := make(map[string]struct{})
	var relIDs []string

	collect := func(bucket map[string]struct{}) {
		for relID := range bucket {
			if _, dup := seenRels[relID]; dup {
				continue
			}
			r := g.relationships[relID]
			if len(relTypes) > 0 {
				if _, ok := relTypes[r.Type]; !ok {
					continue
				}
			}
			seenRels[relID] = struct{}{}
			relIDs = append(relIDs, relID)
		}
	}

	for _, id := range baseIDs {
		if direction == DirectionOutgoing || direction == DirectionBoth {
			collect(g.outgoing[id])
		}
		if direction == DirectionIncoming || direction == DirectionBoth {
			collect(g.incoming[id])
		}
	}

	sort.Strings(relIDs)
	for _, relID := range relIDs {
		r := g.relationships[relID]
		res.Relationships = append(res.Relationships, *r.Clone())

		for _, otherID := range []string{r.SourceID, r.TargetID} {
			if _, dup := seenEntities[otherID]; dup {
				continue
			}
			other, ok := g.entities[otherID]
			if !ok {
				continue
			}
			seenEntities[otherID] = struct{}{}
			res.Entities = append(res.Entities, *other.Clone())
		}
	}
}

// paginate slices the sorted id list. A non-positive limit means no
// limit; an offset past the end yields an empty page.
func paginate(ids []string, offset, limit int) []string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}
