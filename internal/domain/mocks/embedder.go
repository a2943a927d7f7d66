// Package mocks provides test doubles for the domain ports.
package mocks

import "context"

// Embedder is a mock ports.Embedder returning a fixed vector.
type Embedder struct {
	Embedding []float32
	Err       error
}

func (m *Embedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Embedding, nil
}

func (m *Embedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.Embedding
	}
	return result, nil
}
