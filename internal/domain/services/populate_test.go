package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/infrastructure/parsers"
)

func raceFeed() *parsers.Feed {
	return &parsers.Feed{
		Entities: []parsers.RawEntity{
			{ID: "candidate:maria", Type: "candidate", Name: "Maria Garcia", Metadata: entities.Metadata{Party: "DEM"}},
			{ID: "office:council", Type: "office", Name: "City Council"},
		},
		Relationships: []parsers.RawRelationship{
			{SourceID: "candidate:maria", TargetID: "office:council", Type: "running_for"},
		},
	}
}

func TestPopulateService_Populate_ValidFeed(t *testing.T) {
	g := graph.New()
	service := NewPopulateService(g)

	result := service.Populate(raceFeed(), PopulateOptions{})

	assert.Equal(t, 2, result.EntitiesAdded)
	assert.Equal(t, 1, result.RelationshipsAdded)
	assert.Empty(t, result.Errors)
	require.NotNil(t, g.GetEntity("candidate:maria"))
	assert.Len(t, g.CandidatesForOffice("office:council"), 1)
}

func TestPopulateService_Populate_ValidationErrors(t *testing.T) {
	g := graph.New()
	service := NewPopulateService(g)
	feed := &parsers.Feed{
		Entities: []parsers.RawEntity{
			{Type: "", Name: "Maria Garcia"},
			{Type: "candidate", Name: ""},
		},
		Relationships: []parsers.RawRelationship{
			{SourceID: "", TargetID: "office:council", Type: "running_for"},
		},
	}

	result := service.Populate(feed, PopulateOptions{})

	assert.Equal(t, 0, result.EntitiesAdded)
	assert.Equal(t, 0, result.RelationshipsAdded)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "type", result.Errors[0].Field)
	assert.Equal(t, "name", result.Errors[1].Field)
	assert.Equal(t, "source_id", result.Errors[2].Field)
}

func TestPopulateService_Populate_InvalidRecordsDoNotBlockValid(t *testing.T) {
	g := graph.New()
	service := NewPopulateService(g)
	feed := raceFeed()
	feed.Entities = append(feed.Entities, parsers.RawEntity{Type: "issue", Name: ""})

	result := service.Populate(feed, PopulateOptions{})

	assert.Equal(t, 2, result.EntitiesAdded)
	assert.Len(t, result.Errors, 1)
}

func TestPopulateService_Populate_DryRun(t *testing.T) {
	g := graph.New()
	service := NewPopulateService(g)

	result := service.Populate(raceFeed(), PopulateOptions{DryRun: true})

	assert.Equal(t, 2, result.EntitiesAdded)
	assert.Equal(t, 0, g.Stats().EntityCount)
	assert.Equal(t, 0, g.Stats().RelationshipCount)
}

func TestPopulateService_Populate_SkipExisting(t *testing.T) {
	g := graph.New()
	g.AddEntity(&entities.Entity{ID: "candidate:maria", Type: entities.EntityCandidate, Name: "Old Name"})
	service := NewPopulateService(g)

	result := service.Populate(raceFeed(), PopulateOptions{})

	assert.Equal(t, 1, result.EntitiesAdded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "Old Name", g.GetEntity("candidate:maria").Name)
}

func TestPopulateService_Populate_Overwrite(t *testing.T) {
	g := graph.New()
	g.AddEntity(&entities.Entity{ID: "candidate:maria", Type: entities.EntityCandidate, Name: "Old Name"})
	service := NewPopulateService(g)

	result := service.Populate(raceFeed(), PopulateOptions{OnConflict: ConflictOverwrite})

	assert.Equal(t, 2, result.EntitiesAdded)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, "Maria Garcia", g.GetEntity("candidate:maria").Name)
}

func TestPopulateService_Populate_NilFeed(t *testing.T) {
	service := NewPopulateService(graph.New())

	result := service.Populate(nil, PopulateOptions{})

	assert.Equal(t, 0, result.EntitiesAdded)
	assert.Empty(t, result.Errors)
}
