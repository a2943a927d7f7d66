package mocks

import (
	"context"
	"errors"

	"github.com/civistack/canvass/internal/domain/entities"
)

// VectorDB is an in-memory mock of ports.VectorDB.
type VectorDB struct {
	Docs      map[string]entities.Document
	SaveErr   error
	SearchErr error
	DeleteErr error
}

// NewVectorDB creates an empty mock document store.
func NewVectorDB() *VectorDB {
	return &VectorDB{Docs: make(map[string]entities.Document)}
}

func (m *VectorDB) EnsureCollection(_ context.Context, _ uint64) error { return nil }
func (m *VectorDB) DeleteCollection(_ context.Context) error           { return nil }

func (m *VectorDB) Save(_ context.Context, doc *entities.Document) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Docs[doc.ID] = *doc
	return nil
}

func (m *VectorDB) SaveBatch(_ context.Context, docs []entities.Document) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	for i := range docs {
		m.Docs[docs[i].ID] = docs[i]
	}
	return nil
}

func (m *VectorDB) FindByID(_ context.Context, id string) (entities.Document, error) {
	if doc, ok := m.Docs[id]; ok {
		return doc, nil
	}
	return entities.Document{}, errors.New("document not found: " + id)
}

// Search ignores the embedding and returns up to limit documents.
func (m *VectorDB) Search(_ context.Context, _ []float32, limit int) ([]entities.Document, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	result := make([]entities.Document, 0, len(m.Docs))
	for _, doc := range m.Docs {
		if len(result) >= limit {
			break
		}
		result = append(result, doc)
	}
	return result, nil
}

func (m *VectorDB) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Docs, id)
	return nil
}

func (m *VectorDB) Count(_ context.Context) (uint64, error) {
	return uint64(len(m.Docs)), nil
}
