package entities

import "time"

// Document represents an unstructured intel snippet stored with its
// embedding for semantic retrieval during context enrichment.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	Source    string    `json:"source,omitempty"`
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
