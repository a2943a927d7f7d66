package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/domain/ports"
)

const (
	// DefaultIssueLimit caps the salient issues pulled into context.
	DefaultIssueLimit = 5
	// DefaultDocumentLimit caps the retrieved intel documents.
	DefaultDocumentLimit = 5
	// minMatchTokenLen filters question tokens too short to be useful
	// name-index probes.
	minMatchTokenLen = 4
	// maxConnectionsPerEntity caps connection lines per matched entity.
	maxConnectionsPerEntity = 8
)

// AskOptions controls context enrichment.
type AskOptions struct {
	IssueLimit    int
	DocumentLimit int
}

// Answer contains the LLM response and the context it was built from.
type Answer struct {
	Question  string              `json:"question"`
	Answer    string              `json:"answer"`
	Context   string              `json:"context"`
	Entities  []entities.Entity   `json:"entities,omitempty"`
	Documents []entities.Document `json:"documents,omitempty"`
}

// EnrichmentService merges knowledge graph lookups with retrieved intel
// documents into a context block and asks the LLM.
type EnrichmentService struct {
	graph    *graph.Graph
	embedder ports.Embedder
	vectorDB ports.VectorDB
	llm      ports.LLMClient
}

// NewEnrichmentService creates a new enrichment service.
func NewEnrichmentService(g *graph.Graph, embedder ports.Embedder, vectorDB ports.VectorDB, llm ports.LLMClient) *EnrichmentService {
	return &EnrichmentService{
		graph:    g,
		embedder: embedder,
		vectorDB: vectorDB,
		llm:      llm,
	}
}

// Ask answers a question with graph and intel context. Retrieval
// failures degrade gracefully: the question is still answered from
// whatever context could be built.
func (s *EnrichmentService) Ask(ctx context.Context, question string, opts AskOptions) (*Answer, error) {
	if opts.IssueLimit <= 0 {
		opts.IssueLimit = DefaultIssueLimit
	}
	if opts.DocumentLimit <= 0 {
		opts.DocumentLimit = DefaultDocumentLimit
	}

	answer := &Answer{Question: question}
	answer.Entities = s.matchEntities(question)
	answer.Documents = s.retrieveDocuments(ctx, question, opts.DocumentLimit)
	answer.Context = s.BuildContext(question, answer.Entities, answer.Documents, opts)

	text, err := s.llm.Answer(ctx, question, answer.Context)
	if err != nil {
		return nil, fmt.Errorf("asking llm: %w", err)
	}
	answer.Answer = text
	return answer, nil
}

// BuildContext formats the salient issues, matched entities with their
// connections, and retrieved documents into the prompt context block.
func (s *EnrichmentService) BuildContext(question string, matched []entities.Entity, docs []entities.Document, opts AskOptions) string {
	var b strings.Builder

	issues := s.graph.Query(graph.Params{
		EntityTypes: []entities.EntityType{entities.EntityIssue},
		Limit:       opts.IssueLimit,
	})
	if len(issues.Entities) > 0 {
		b.WriteString("Key issues:\n")
		for _, issue := range issues.Entities {
			b.WriteString(fmt.Sprintf("- %s", issue.Name))
			if issue.Metadata.Category != "" {
				b.WriteString(fmt.Sprintf(" (%s)", issue.Metadata.Category))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(matched) > 0 {
		b.WriteString("Known entities:\n")
		for _, e := range matched {
			b.WriteString(fmt.Sprintf("- %s [%s]\n", e.Name, e.Type))
			conns := s.graph.Connections(e.ID)
			if len(conns) > maxConnectionsPerEntity {
				conns = conns[:maxConnectionsPerEntity]
			}
			for _, conn := range conns {
				other := "unknown"
				if conn.Entity != nil {
					other = conn.Entity.Name
				}
				if conn.Direction == graph.DirectionOutgoing {
					b.WriteString(fmt.Sprintf("  %s -[%s]-> %s\n", e.Name, conn.Relationship.Type, other))
				} else {
					b.WriteString(fmt.Sprintf("  %s -[%s]-> %s\n", other, conn.Relationship.Type, e.Name))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(docs) > 0 {
		b.WriteString("Relevant intel:\n")
		for _, doc := range docs {
			b.WriteString(fmt.Sprintf("- %s", doc.Text))
			if doc.Source != "" {
				b.WriteString(fmt.Sprintf(" (source: %s)", doc.Source))
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimSpace(b.String())
}

// matchEntities probes the name index with the question's longer tokens.
func (s *EnrichmentService) matchEntities(question string) []entities.Entity {
	var matched []entities.Entity
	seen := make(map[string]struct{})
	for _, tok := range entities.Tokenize(question) {
		if len([]rune(tok)) < minMatchTokenLen {
			continue
		}
		res := s.graph.Query(graph.Params{NamePattern: tok, Limit: 3})
		for _, e := range res.Entities {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			matched = append(matched, e)
		}
	}
	return matched
}

// retrieveDocuments embeds the question and searches the intel store.
// Any failure yields no documents rather than failing the enrichment.
func (s *EnrichmentService) retrieveDocuments(ctx context.Context, question string, limit int) []entities.Document {
	if s.embedder == nil || s.vectorDB == nil {
		return nil
	}
	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil
	}
	docs, err := s.vectorDB.Search(ctx, embedding, limit)
	if err != nil {
		return nil
	}
	return docs
}
