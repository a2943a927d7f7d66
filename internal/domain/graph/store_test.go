package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civistack/canvass/internal/domain/entities"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	return New()
}

func addCandidate(t *testing.T, g *Graph, name string) string {
	t.Helper()
	return g.AddEntity(&entities.Entity{
		Type: entities.EntityCandidate,
		Name: name,
	})
}

func TestGraph_AddEntity_GeneratesTypedID(t *testing.T) {
	g := newTestGraph(t)

	id := addCandidate(t, g, "Maria Garcia")

	assert.Regexp(t, `^candidate:[0-9a-f]{12}$`, id)
	e := g.GetEntity(id)
	require.NotNil(t, e)
	assert.Equal(t, "Maria Garcia", e.Name)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
}

func TestGraph_AddEntity_PreservesGivenID(t *testing.T) {
	g := newTestGraph(t)

	id := g.AddEntity(&entities.Entity{ID: "candidate:maria", Type: entities.EntityCandidate, Name: "Maria"})

	assert.Equal(t, "candidate:maria", id)
}

func TestGraph_AddEntity_DoesNotAliasInput(t *testing.T) {
	g := newTestGraph(t)
	input := &entities.Entity{Type: entities.EntityCandidate, Name: "Maria", Aliases: []string{"M."}}

	id := g.AddEntity(input)
	input.Aliases[0] = "changed"

	assert.Equal(t, "M.", g.GetEntity(id).Aliases[0])
}

func TestGraph_GetEntity_Unknown(t *testing.T) {
	g := newTestGraph(t)
	assert.Nil(t, g.GetEntity("candidate:missing"))
}

func TestGraph_GetEntity_ReturnsCopy(t *testing.T) {
	g := newTestGraph(t)
	id := addCandidate(t, g, "Maria Garcia")

	got := g.GetEntity(id)
	got.Name = "mutated"

	assert.Equal(t, "Maria Garcia", g.GetEntity(id).Name)
}

func TestGraph_UpdateEntity_PatchesFields(t *testing.T) {
	g := newTestGraph(t)
	id := addCandidate(t, g, "Maria Garcia")

	name := "Maria Garcia-Lopez"
	meta := entities.Metadata{Party: "DEM"}
	ok := g.UpdateEntity(id, EntityPatch{Name: &name, Metadata: &meta})

	require.True(t, ok)
	e := g.GetEntity(id)
	assert.Equal(t, "Maria Garcia-Lopez", e.Name)
	assert.Equal(t, "DEM", e.Metadata.Party)
}

func TestGraph_UpdateEntity_Unknown(t *testing.T) {
	g := newTestGraph(t)
	name := "x"
	assert.False(t, g.UpdateEntity("candidate:missing", EntityPatch{Name: &name}))
}

func TestGraph_UpdateEntity_RenameReindexesNameSearch(t *testing.T) {
	g := newTestGraph(t)
	id := addCandidate(t, g, "Maria Garcia")

	name := "Ana Lopez"
	require.True(t, g.UpdateEntity(id, EntityPatch{Name: &name}))

	assert.Empty(t, g.Query(Params{NamePattern: "garcia"}).Entities)
	res := g.Query(Params{NamePattern: "lopez"})
	require.Len(t, res.Entities, 1)
	assert.Equal(t, id, res.Entities[0].ID)
}

func TestGraph_RemoveEntity_CascadesRelationships(t *testing.T) {
	g := newTestGraph(t)
	cand := addCandidate(t, g, "Maria Garcia")
	office := g.AddEntity(&entities.Entity{Type: entities.EntityOffice, Name: "City Council"})

	relID := g.AddRelationship(&entities.Relationship{
		SourceID: cand,
		TargetID: office,
		Type:     entities.RelationRunningFor,
	})

	require.True(t, g.RemoveEntity(office))
	assert.Nil(t, g.GetRelationship(relID))
	assert.NotNil(t, g.GetEntity(cand))
	assert.Equal(t, 0, g.Stats().RelationshipCount)
}

func TestGraph_RemoveEntity_Unknown(t *testing.T) {
	g := newTestGraph(t)
	assert.False(t, g.RemoveEntity("candidate:missing"))
}

func TestGraph_AddRelationship_DeterministicID(t *testing.T) {
	g := newTestGraph(t)

	id := g.AddRelationship(&entities.Relationship{
		SourceID: "candidate:a",
		TargetID: "office:b",
		Type:     entities.RelationRunningFor,
	})

	assert.Equal(t, "candidate:a--running_for--office:b", id)
	require.NotNil(t, g.GetRelationship(id))
}

func TestGraph_AddRelationship_DanglingEndpointsAccepted(t *testing.T) {
	g := newTestGraph(t)

	id := g.AddRelationship(&entities.Relationship{
		SourceID: "candidate:ghost",
		TargetID: "office:ghost",
		Type:     entities.RelationRunningFor,
	})

	assert.NotNil(t, g.GetRelationship(id))
	assert.Equal(t, 1, g.Stats().RelationshipCount)
}

func TestGraph_RemoveRelationship(t *testing.T) {
	g := newTestGraph(t)
	id := g.AddRelationship(&entities.Relationship{
		SourceID: "a", TargetID: "b", Type: entities.RelationContains,
	})

	assert.True(t, g.RemoveRelationship(id))
	assert.False(t, g.RemoveRelationship(id))
	assert.Nil(t, g.GetRelationship(id))
}

func TestGraph_Stats_ByType(t *testing.T) {
	g := newTestGraph(t)
	addCandidate(t, g, "Maria Garcia")
	addCandidate(t, g, "Ana Lopez")
	g.AddEntity(&entities.Entity{Type: entities.EntityOffice, Name: "Mayor"})
	g.AddRelationship(&entities.Relationship{SourceID: "a", TargetID: "b", Type: entities.RelationRunningFor})

	stats := g.Stats()

	assert.Equal(t, 3, stats.EntityCount)
	assert.Equal(t, 2, stats.EntitiesByType[entities.EntityCandidate])
	assert.Equal(t, 1, stats.EntitiesByType[entities.EntityOffice])
	assert.Equal(t, 1, stats.RelationshipsByType[entities.RelationRunningFor])
}

func TestGraph_AddEntity_PermissiveMetadata(t *testing.T) {
	g := newTestGraph(t)

	// Candidate fields on an issue are stored as given.
	id := g.AddEntity(&entities.Entity{
		Type:     entities.EntityIssue,
		Name:     "Housing",
		Metadata: entities.Metadata{Party: "DEM", Salience: 0.9},
	})

	e := g.GetEntity(id)
	assert.Equal(t, "DEM", e.Metadata.Party)
	assert.Equal(t, 0.9, e.Metadata.Salience)
}

func TestGraph_AllEntities_SortedByID(t *testing.T) {
	g := newTestGraph(t)
	g.AddEntity(&entities.Entity{ID: "candidate:b", Type: entities.EntityCandidate, Name: "B"})
	g.AddEntity(&entities.Entity{ID: "candidate:a", Type: entities.EntityCandidate, Name: "A"})

	all := g.AllEntities()

	require.Len(t, all, 2)
	assert.Equal(t, "candidate:a", all[0].ID)
	assert.Equal(t, "candidate:b", all[1].ID)
}
