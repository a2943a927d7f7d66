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
)

func seedEnrichGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddEntity(&entities.Entity{ID: "candidate:maria", Type: entities.EntityCandidate, Name: "Maria Garcia", Metadata: entities.Metadata{Party: "DEM"}})
	g.AddEntity(&entities.Entity{ID: "office:council", Type: entities.EntityOffice, Name: "City Council"})
	g.AddEntity(&entities.Entity{ID: "issue:housing", Type: entities.EntityIssue, Name: "Housing", Metadata: entities.Metadata{Category: "housing"}})
	g.AddRelationship(&entities.Relationship{SourceID: "candidate:maria", TargetID: "office:council", Type: entities.RelationRunningFor})
	return g
}

func TestEnrichmentService_Ask_BuildsContextAndAnswers(t *testing.T) {
	g := seedEnrichGraph(t)
	vectorDB := mocks.NewVectorDB()
	vectorDB.Docs["doc-1"] = entities.Document{ID: "doc-1", Text: "Garcia leads in early polling.", Source: "poll-memo"}
	llm := &mocks.LLM{AnswerText: "Maria Garcia is running for City Council."}

	service := NewEnrichmentService(g, &mocks.Embedder{Embedding: []float32{0.1}}, vectorDB, llm)
	answer, err := service.Ask(context.Background(), "What is Garcia running for?", AskOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Maria Garcia is running for City Council.", answer.Answer)
	require.Len(t, answer.Entities, 1)
	assert.Equal(t, "candidate:maria", answer.Entities[0].ID)
	assert.Len(t, answer.Documents, 1)

	assert.Contains(t, answer.Context, "Key issues:")
	assert.Contains(t, answer.Context, "- Housing (housing)")
	assert.Contains(t, answer.Context, "Known entities:")
	assert.Contains(t, answer.Context, "Maria Garcia -[running_for]-> City Council")
	assert.Contains(t, answer.Context, "Relevant intel:")
	assert.Contains(t, answer.Context, "Garcia leads in early polling. (source: poll-memo)")
	assert.Equal(t, answer.Context, llm.LastContext)
}

func TestEnrichmentService_Ask_ShortTokensIgnored(t *testing.T) {
	g := seedEnrichGraph(t)
	llm := &mocks.LLM{AnswerText: "ok"}

	service := NewEnrichmentService(g, &mocks.Embedder{}, mocks.NewVectorDB(), llm)
	answer, err := service.Ask(context.Background(), "who is it", AskOptions{})

	require.NoError(t, err)
	assert.Empty(t, answer.Entities)
}

func TestEnrichmentService_Ask_RetrievalFailureDegrades(t *testing.T) {
	g := seedEnrichGraph(t)
	vectorDB := mocks.NewVectorDB()
	vectorDB.SearchErr = errors.New("qdrant down")
	llm := &mocks.LLM{AnswerText: "answered anyway"}

	service := NewEnrichmentService(g, &mocks.Embedder{Embedding: []float32{0.1}}, vectorDB, llm)
	answer, err := service.Ask(context.Background(), "What is Garcia running for?", AskOptions{})

	require.NoError(t, err)
	assert.Equal(t, "answered anyway", answer.Answer)
	assert.Empty(t, answer.Documents)
	assert.NotContains(t, answer.Context, "Relevant intel:")
}

func TestEnrichmentService_Ask_EmbedderFailureDegrades(t *testing.T) {
	g := seedEnrichGraph(t)
	llm := &mocks.LLM{AnswerText: "answered anyway"}

	service := NewEnrichmentService(g, &mocks.Embedder{Err: errors.New("api error")}, mocks.NewVectorDB(), llm)
	answer, err := service.Ask(context.Background(), "Garcia?", AskOptions{})

	require.NoError(t, err)
	assert.Empty(t, answer.Documents)
}

func TestEnrichmentService_Ask_NilRetrievalStack(t *testing.T) {
	g := seedEnrichGraph(t)
	llm := &mocks.LLM{AnswerText: "graph only"}

	service := NewEnrichmentService(g, nil, nil, llm)
	answer, err := service.Ask(context.Background(), "Garcia?", AskOptions{})

	require.NoError(t, err)
	assert.Equal(t, "graph only", answer.Answer)
}

func TestEnrichmentService_Ask_LLMError(t *testing.T) {
	g := seedEnrichGraph(t)
	llm := &mocks.LLM{AnswerErr: errors.New("rate limited")}

	service := NewEnrichmentService(g, nil, nil, llm)
	_, err := service.Ask(context.Background(), "Garcia?", AskOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "asking llm")
}

func TestEnrichmentService_BuildContext_CapsConnections(t *testing.T) {
	g := seedEnrichGraph(t)
	for i := 0; i < maxConnectionsPerEntity+3; i++ {
		g.AddRelationship(&entities.Relationship{
			SourceID: "candidate:maria",
			TargetID: g.AddEntity(&entities.Entity{Type: entities.EntityPrecinct, Name: "Precinct"}),
			Type:     entities.RelationCampaignedIn,
		})
	}

	service := NewEnrichmentService(g, nil, nil, &mocks.LLM{})
	matched := []entities.Entity{*g.GetEntity("candidate:maria")}
	block := service.BuildContext("q", matched, nil, AskOptions{IssueLimit: DefaultIssueLimit})

	lines := 0
	for _, line := range splitLines(block) {
		if len(line) > 2 && line[0] == ' ' {
			lines++
		}
	}
	assert.Equal(t, maxConnectionsPerEntity, lines)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
