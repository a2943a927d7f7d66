package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/domain/ports"
)

// IntelResult summarizes an intel ingestion.
type IntelResult struct {
	DocumentID         string
	EntitiesAdded      int
	EntitiesMatched    int
	RelationshipsAdded int
}

// IntelService stores unstructured intel text as embedded documents and
// extracts entities and relationships from it into the knowledge graph.
type IntelService struct {
	llm      ports.LLMClient
	embedder ports.Embedder
	vectorDB ports.VectorDB
	graph    *graph.Graph
}

// NewIntelService creates a new intel service.
func NewIntelService(llm ports.LLMClient, embedder ports.Embedder, vectorDB ports.VectorDB, g *graph.Graph) *IntelService {
	return &IntelService{
		llm:      llm,
		embedder: embedder,
		vectorDB: vectorDB,
		graph:    g,
	}
}

// Ingest embeds and stores the text as an intel document, then asks the
// LLM to extract graph records from it. Extracted entities are resolved
// by name against the store before insertion, so repeated ingestion of
// the same subject does not duplicate nodes.
func (s *IntelService) Ingest(ctx context.Context, text, source string) (*IntelResult, error) {
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding intel text: %w", err)
	}

	doc := &entities.Document{
		ID:        uuid.New().String(),
		Text:      text,
		Source:    source,
		Embedding: embedding,
		CreatedAt: time.Now(),
	}
	if err := s.vectorDB.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving intel document: %w", err)
	}

	extraction, err := s.llm.ExtractGraph(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extracting graph records: %w", err)
	}

	result := &IntelResult{DocumentID: doc.ID}
	idsByName := make(map[string]string)
	typesByName := make(map[string]entities.EntityType)

	for i := range extraction.Entities {
		ext := &extraction.Entities[i]
		if ext.Name == "" || ext.Type == "" {
			continue
		}
		key := entities.NormalizeName(ext.Name)

		if existing := s.resolveByName(ext.Name); existing != nil {
			idsByName[key] = existing.ID
			typesByName[key] = existing.Type
			result.EntitiesMatched++
			continue
		}

		id := s.graph.AddEntity(&entities.Entity{
			Type:    entities.EntityType(ext.Type),
			Name:    ext.Name,
			Aliases: ext.Aliases,
			Metadata: entities.Metadata{
				Party:    ext.Party,
				Category: ext.Category,
			},
		})
		idsByName[key] = id
		typesByName[key] = entities.EntityType(ext.Type)
		result.EntitiesAdded++
	}

	for i := range extraction.Relationships {
		ext := &extraction.Relationships[i]
		sourceID, okSource := idsByName[entities.NormalizeName(ext.Source)]
		targetID, okTarget := idsByName[entities.NormalizeName(ext.Target)]
		if !okSource || !okTarget || ext.Type == "" {
			continue
		}
		s.graph.AddRelationship(&entities.Relationship{
			SourceID:   sourceID,
			SourceType: typesByName[entities.NormalizeName(ext.Source)],
			TargetID:   targetID,
			TargetType: typesByName[entities.NormalizeName(ext.Target)],
			Type:       entities.RelationType(ext.Type),
		})
		result.RelationshipsAdded++
	}

	return result, nil
}

// resolveByName finds a stored entity whose name or alias equals the
// extracted name, case-insensitively.
func (s *IntelService) resolveByName(name string) *entities.Entity {
	res := s.graph.Query(graph.Params{NamePattern: entities.NormalizeName(name)})
	for i := range res.Entities {
		for _, candidate := range res.Entities[i].Names() {
			if strings.EqualFold(candidate, name) {
				return &res.Entities[i]
			}
		}
	}
	return nil
}
