package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses a graph feed from JSON format: an object with
// "entities" and "relationships" arrays.
type JSONParser struct{}

// Parse reads JSON from the reader and returns the parsed feed.
// Missing arrays are treated as empty.
func (p *JSONParser) Parse(r io.Reader) (*Feed, error) {
	var feed Feed

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing JSON feed: %w", err)
	}

	// Set line numbers (array index + 1, 1-indexed).
	for i := range feed.Entities {
		feed.Entities[i].LineNum = i + 1
	}
	for i := range feed.Relationships {
		feed.Relationships[i].LineNum = i + 1
	}

	return &feed, nil
}
