package ports

import (
	"context"

	"github.com/civistack/canvass/internal/domain/entities"
)

// VectorDB defines the interface for the intel document store backing
// semantic retrieval.
type VectorDB interface {
	// EnsureCollection creates the document collection if it doesn't exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// DeleteCollection removes the document collection.
	DeleteCollection(ctx context.Context) error

	// Save stores a document with its embedding.
	Save(ctx context.Context, doc *entities.Document) error

	// SaveBatch stores multiple documents.
	SaveBatch(ctx context.Context, docs []entities.Document) error

	// FindByID retrieves a document by its ID.
	FindByID(ctx context.Context, id string) (entities.Document, error)

	// Search returns the documents most similar to the embedding.
	Search(ctx context.Context, embedding []float32, limit int) ([]entities.Document, error)

	// Delete removes a document by its ID.
	Delete(ctx context.Context, id string) error

	// Count returns the total number of stored documents.
	Count(ctx context.Context) (uint64, error)
}
