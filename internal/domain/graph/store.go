// Package graph implements the in-memory campaign knowledge graph: an
// entity/relationship store with derived indices, a filtered query
// engine, breadth-first path search, and snapshot serialization.
//
// The store is process-wide shared mutable state. All mutations take
// the write lock and all reads take the read lock, so no interleaved
// partial update is ever observable. Accessors return copies; the only
// way to change an indexed field is through UpdateEntity.
package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civistack/canvass/internal/domain/entities"
)

// Graph is the in-memory entity/relationship store.
type Graph struct {
	mu sync.RWMutex

	entities      map[string]*entities.Entity
	relationships map[string]*entities.Relationship

	entitiesByType      map[entities.EntityType]map[string]struct{}
	entitiesByToken     map[string]map[string]struct{}
	relationshipsByType map[entities.RelationType]map[string]struct{}

	// Adjacency lists, keyed by entity id. These are the only traversal
	// structures; path search walks both directions.
	outgoing map[string]map[string]struct{}
	incoming map[string]map[string]struct{}
}

// New creates an empty graph.
func New() *Graph {
	g := &Graph{}
	g.resetLocked()
	return g
}

// resetLocked reinitializes every map. Caller must hold the write lock
// (or own the graph exclusively, as in New).
func (g *Graph) resetLocked() {
	g.entities = make(map[string]*entities.Entity)
	g.relationships = make(map[string]*entities.Relationship)
	g.entitiesByType = make(map[entities.EntityType]map[string]struct{})
	g.entitiesByToken = make(map[string]map[string]struct{})
	g.relationshipsByType = make(map[entities.RelationType]map[string]struct{})
	g.outgoing = make(map[string]map[string]struct{})
	g.incoming = make(map[string]map[string]struct{})
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// newEntityID generates an id of the form "<type>:<12-char suffix>".
func newEntityID(t entities.EntityType) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("%s:%s", t, suffix)
}

// relationshipID generates a deterministic id from the endpoints and type.
func relationshipID(r *entities.Relationship) string {
	return fmt.Sprintf("%s--%s--%s", r.SourceID, r.Type, r.TargetID)
}

func addIndex[K comparable](m map[K]map[string]struct{}, key K, id string) {
	bucket, ok := m[key]
	if !ok {
		bucket = make(map[string]struct{})
		m[key] = bucket
	}
	bucket[id] = struct{}{}
}

func removeIndex[K comparable](m map[K]map[string]struct{}, key K, id string) {
	bucket, ok := m[key]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(m, key)
	}
}

// AddEntity inserts a copy of the entity and returns the assigned id.
// A missing id is generated, missing timestamps are set to now. Calling
// it twice with the same id replaces the stored record additively;
// callers should use UpdateEntity to mutate.
func (g *Graph) AddEntity(e *entities.Entity) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addEntityLocked(e.Clone())
}

func (g *Graph) addEntityLocked(e *entities.Entity) string {
	if e.ID == "" {
		e.ID = newEntityID(e.Type)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = timeNow()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	g.entities[e.ID] = e
	addIndex(g.entitiesByType, e.Type, e.ID)
	g.indexNameLocked(e)
	return e.ID
}

func (g *Graph) indexNameLocked(e *entities.Entity) {
	for _, tok := range e.NameTokens() {
		addIndex(g.entitiesByToken, tok, e.ID)
	}
}

func (g *Graph) unindexNameLocked(e *entities.Entity) {
	for _, tok := range e.NameTokens() {
		removeIndex(g.entitiesByToken, tok, e.ID)
	}
}

// GetEntity returns a copy of the entity, or nil if the id is unknown.
func (g *Graph) GetEntity(id string) *entities.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if e, ok := g.entities[id]; ok {
		return e.Clone()
	}
	return nil
}

// EntityPatch holds optional field updates for UpdateEntity. Nil fields
// are left untouched. Id and type are immutable and cannot be patched.
type EntityPatch struct {
	Name     *string
	Aliases  *[]string
	Metadata *entities.Metadata
}

// UpdateEntity merges the patch onto the stored entity, reindexes the
// name tokens when the name or aliases changed, and refreshes
// UpdatedAt. Returns false if the id is unknown.
func (g *Graph) UpdateEntity(id string, patch EntityPatch) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entities[id]
	if !ok {
		return false
	}

	reindex := patch.Name != nil || patch.Aliases != nil
	if reindex {
		g.unindexNameLocked(e)
	}

	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Aliases != nil {
		e.Aliases = append([]string(nil), (*patch.Aliases)...)
	}
	if patch.Metadata != nil {
		e.Metadata = *patch.Metadata
		if patch.Metadata.Keywords != nil {
			e.Metadata.Keywords = append([]string(nil), patch.Metadata.Keywords...)
		}
	}

	if reindex {
		g.indexNameLocked(e)
	}
	e.UpdatedAt = timeNow()
	return true
}

// RemoveEntity deletes the entity and every relationship naming it as
// source or target. Returns false if the id is unknown.
func (g *Graph) RemoveEntity(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entities[id]
	if !ok {
		return false
	}

	for relID := range g.outgoing[id] {
		g.removeRelationshipLocked(relID)
	}
	for relID := range g.incoming[id] {
		g.removeRelationshipLocked(relID)
	}

	g.unindexNameLocked(e)
	removeIndex(g.entitiesByType, e.Type, id)
	delete(g.entities, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	return true
}

// AddRelationship inserts a copy of the relationship and returns the
// assigned id. A missing id is generated deterministically from the
// endpoints and type. Endpoint ids are not required to reference stored
// entities.
func (g *Graph) AddRelationship(r *entities.Relationship) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addRelationshipLocked(r.Clone())
}

func (g *Graph) addRelationshipLocked(r *entities.Relationship) string {
	if r.ID == "" {
		r.ID = relationshipID(r)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = timeNow()
	}

	g.relationships[r.ID] = r
	addIndex(g.relationshipsByType, r.Type, r.ID)
	addIndex(g.outgoing, r.SourceID, r.ID)
	addIndex(g.incoming, r.TargetID, r.ID)
	return r.ID
}

// GetRelationship returns a copy of the relationship, or nil if unknown.
func (g *Graph) GetRelationship(id string) *entities.Relationship {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if r, ok := g.relationships[id]; ok {
		return r.Clone()
	}
	return nil
}

// RemoveRelationship deletes the relationship from all indices. Returns
// whether it existed.
func (g *Graph) RemoveRelationship(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removeRelationshipLocked(id)
}

func (g *Graph) removeRelationshipLocked(id string) bool {
	r, ok := g.relationships[id]
	if !ok {
		return false
	}
	removeIndex(g.relationshipsByType, r.Type, id)
	removeIndex(g.outgoing, r.SourceID, id)
	removeIndex(g.incoming, r.TargetID, id)
	delete(g.relationships, id)
	return true
}

// AllEntities returns a copy of every entity, sorted by id.
func (g *Graph) AllEntities() []entities.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]entities.Entity, 0, len(g.entities))
	for _, e := range g.entities {
		out = append(out, *e.Clone())
	}
	sortEntities(out)
	return out
}

// AllRelationships returns a copy of every relationship, sorted by id.
func (g *Graph) AllRelationships() []entities.Relationship {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]entities.Relationship, 0, len(g.relationships))
	for _, r := range g.relationships {
		out = append(out, *r.Clone())
	}
	sortRelationships(out)
	return out
}

// Stats summarizes the store contents.
type Stats struct {
	EntityCount         int                           `json:"entity_count"`
	RelationshipCount   int                           `json:"relationship_count"`
	EntitiesByType      map[entities.EntityType]int   `json:"entities_by_type"`
	RelationshipsByType map[entities.RelationType]int `json:"relationships_by_type"`
}

// Stats returns counts of live entities and relationships, broken down
// by type.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := Stats{
		EntityCount:         len(g.entities),
		RelationshipCount:   len(g.relationships),
		EntitiesByType:      make(map[entities.EntityType]int, len(g.entitiesByType)),
		RelationshipsByType: make(map[entities.RelationType]int, len(g.relationshipsByType)),
	}
	for t, bucket := range g.entitiesByType {
		s.EntitiesByType[t] = len(bucket)
	}
	for t, bucket := range g.relationshipsByType {
		s.RelationshipsByType[t] = len(bucket)
	}
	return s
}

func sortEntities(list []entities.Entity) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}

func sortRelationships(list []entities.Relationship) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}
