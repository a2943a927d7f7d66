// Package ports defines interfaces for external service communication.
package ports

import "context"

// LLMClient defines the interface for LLM operations.
type LLMClient interface {
	// Answer responds to a question using the supplied context block of
	// graph facts and retrieved intel.
	Answer(ctx context.Context, question, contextBlock string) (string, error)

	// ExtractGraph extracts entities and relationships from
	// unstructured intel text.
	ExtractGraph(ctx context.Context, text string) (*GraphExtraction, error)
}

// GraphExtraction holds entities and relationships extracted from text.
type GraphExtraction struct {
	Entities      []ExtractedEntity       `json:"entities"`
	Relationships []ExtractedRelationship `json:"relationships"`
}

// ExtractedEntity is a graph node proposed by the LLM, identified by
// name; the caller resolves names against the store.
type ExtractedEntity struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Aliases    []string `json:"aliases,omitempty"`
	Party      string   `json:"party,omitempty"`
	Category   string   `json:"category,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// ExtractedRelationship is a proposed edge between two extracted
// entities, referenced by name.
type ExtractedRelationship struct {
	Source     string  `json:"source"`
	Type       string  `json:"type"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence,omitempty"`
}
