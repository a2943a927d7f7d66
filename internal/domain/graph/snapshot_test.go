package graph

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civistack/canvass/internal/domain/entities"
)

func TestGraph_ExportLoad_RoundTrip(t *testing.T) {
	g := seedRaceGraph(t)
	snap := g.Export()

	restored := New()
	restored.Load(snap)

	assert.Equal(t, g.Stats(), restored.Stats())
	assert.Equal(t, g.AllEntities(), restored.AllEntities())
	assert.Equal(t, g.AllRelationships(), restored.AllRelationships())

	// Rebuilt indices answer the same queries.
	res := restored.Query(Params{NamePattern: "garcia"})
	require.Len(t, res.Entities, 1)
	assert.Equal(t, "candidate:maria", res.Entities[0].ID)
	assert.Len(t, restored.CandidatesForOffice("office:council"), 2)
}

func TestGraph_ExportLoad_JSONRoundTrip(t *testing.T) {
	g := seedRaceGraph(t)

	data, err := json.Marshal(g.Export())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored := New()
	restored.Load(&snap)

	assert.Equal(t, g.AllEntities(), restored.AllEntities())
	assert.Equal(t, g.AllRelationships(), restored.AllRelationships())
}

func TestGraph_Load_PreservesIDsAndTimestamps(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := &Snapshot{
		Entities: []entities.Entity{{
			ID:        "candidate:fixed",
			Type:      entities.EntityCandidate,
			Name:      "Maria Garcia",
			CreatedAt: created,
			UpdatedAt: created,
		}},
	}

	g := New()
	g.Load(snap)

	e := g.GetEntity("candidate:fixed")
	require.NotNil(t, e)
	assert.Equal(t, created, e.CreatedAt)
	assert.Equal(t, created, e.UpdatedAt)
}

func TestGraph_Load_ReplacesExistingState(t *testing.T) {
	g := seedRaceGraph(t)

	g.Load(&Snapshot{})

	assert.Equal(t, 0, g.Stats().EntityCount)
	assert.Equal(t, 0, g.Stats().RelationshipCount)
	assert.Empty(t, g.Query(Params{NamePattern: "garcia"}).Entities)
}

func TestGraph_Load_NilResets(t *testing.T) {
	g := seedRaceGraph(t)

	g.Load(nil)

	assert.Equal(t, 0, g.Stats().EntityCount)
}

func TestGraph_Export_Sorted(t *testing.T) {
	g := New()
	g.AddEntity(&entities.Entity{ID: "issue:b", Type: entities.EntityIssue, Name: "B"})
	g.AddEntity(&entities.Entity{ID: "issue:a", Type: entities.EntityIssue, Name: "A"})

	snap := g.Export()

	require.Len(t, snap.Entities, 2)
	assert.Equal(t, "issue:a", snap.Entities[0].ID)
}
