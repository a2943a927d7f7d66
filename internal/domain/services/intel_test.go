package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/domain/mocks"
	"github.com/civistack/canvass/internal/domain/ports"
)

func raceExtraction() *ports.GraphExtraction {
	return &ports.GraphExtraction{
		Entities: []ports.ExtractedEntity{
			{Name: "Maria Garcia", Type: "candidate", Party: "DEM", Confidence: 0.95},
			{Name: "City Council", Type: "office", Confidence: 0.9},
		},
		Relationships: []ports.ExtractedRelationship{
			{Source: "Maria Garcia", Type: "running_for", Target: "City Council", Confidence: 0.9},
		},
	}
}

func TestIntelService_Ingest_StoresDocumentAndExtracts(t *testing.T) {
	g := graph.New()
	vectorDB := mocks.NewVectorDB()
	llm := &mocks.LLM{Extraction: raceExtraction()}

	service := NewIntelService(llm, &mocks.Embedder{Embedding: []float32{0.1}}, vectorDB, g)
	result, err := service.Ingest(context.Background(), "Garcia announced her council run.", "news")

	require.NoError(t, err)
	assert.NotEmpty(t, result.DocumentID)
	assert.Len(t, vectorDB.Docs, 1)
	assert.Equal(t, 2, result.EntitiesAdded)
	assert.Equal(t, 0, result.EntitiesMatched)
	assert.Equal(t, 1, result.RelationshipsAdded)

	candidates := g.Query(graph.Params{EntityTypes: []entities.EntityType{entities.EntityCandidate}})
	require.Len(t, candidates.Entities, 1)
	assert.Equal(t, "Maria Garcia", candidates.Entities[0].Name)
	assert.Equal(t, "DEM", candidates.Entities[0].Metadata.Party)
	assert.Len(t, g.Connections(candidates.Entities[0].ID), 1)
}

func TestIntelService_Ingest_ResolvesExistingByName(t *testing.T) {
	g := graph.New()
	existing := g.AddEntity(&entities.Entity{Type: entities.EntityCandidate, Name: "maria garcia"})
	llm := &mocks.LLM{Extraction: raceExtraction()}

	service := NewIntelService(llm, &mocks.Embedder{Embedding: []float32{0.1}}, mocks.NewVectorDB(), g)
	result, err := service.Ingest(context.Background(), "text", "news")

	require.NoError(t, err)
	assert.Equal(t, 1, result.EntitiesMatched)
	assert.Equal(t, 1, result.EntitiesAdded)
	// The relationship hangs off the resolved entity, not a duplicate.
	assert.Len(t, g.Connections(existing), 1)
	assert.Equal(t, 2, g.Stats().EntityCount)
}

func TestIntelService_Ingest_SkipsUnresolvableRelationships(t *testing.T) {
	g := graph.New()
	extraction := raceExtraction()
	extraction.Relationships = append(extraction.Relationships, ports.ExtractedRelationship{
		Source: "Maria Garcia", Type: "endorsed_by", Target: "Unknown Org",
	})
	llm := &mocks.LLM{Extraction: extraction}

	service := NewIntelService(llm, &mocks.Embedder{Embedding: []float32{0.1}}, mocks.NewVectorDB(), g)
	result, err := service.Ingest(context.Background(), "text", "news")

	require.NoError(t, err)
	assert.Equal(t, 1, result.RelationshipsAdded)
}

func TestIntelService_Ingest_SkipsNamelessEntities(t *testing.T) {
	g := graph.New()
	llm := &mocks.LLM{Extraction: &ports.GraphExtraction{
		Entities: []ports.ExtractedEntity{{Name: "", Type: "candidate"}, {Name: "X", Type: ""}},
	}}

	service := NewIntelService(llm, &mocks.Embedder{Embedding: []float32{0.1}}, mocks.NewVectorDB(), g)
	result, err := service.Ingest(context.Background(), "text", "news")

	require.NoError(t, err)
	assert.Equal(t, 0, result.EntitiesAdded)
	assert.Equal(t, 0, g.Stats().EntityCount)
}

func TestIntelService_Ingest_EmbedError(t *testing.T) {
	service := NewIntelService(&mocks.LLM{}, &mocks.Embedder{Err: errors.New("api error")}, mocks.NewVectorDB(), graph.New())

	_, err := service.Ingest(context.Background(), "text", "news")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding intel text")
}

func TestIntelService_Ingest_SaveError(t *testing.T) {
	vectorDB := mocks.NewVectorDB()
	vectorDB.SaveErr = errors.New("qdrant down")
	service := NewIntelService(&mocks.LLM{}, &mocks.Embedder{Embedding: []float32{0.1}}, vectorDB, graph.New())

	_, err := service.Ingest(context.Background(), "text", "news")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving intel document")
}

func TestIntelService_Ingest_ExtractError(t *testing.T) {
	llm := &mocks.LLM{ExtractErr: errors.New("bad json")}
	service := NewIntelService(llm, &mocks.Embedder{Embedding: []float32{0.1}}, mocks.NewVectorDB(), graph.New())

	_, err := service.Ingest(context.Background(), "text", "news")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extracting graph records")
}
