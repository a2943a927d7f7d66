// Package entities defines the core domain types for the campaign
// knowledge graph: typed entities, the relationships connecting them,
// and the intel documents stored for retrieval.
package entities

import (
	"strings"
	"time"
)

// EntityType categorizes nodes in the knowledge graph.
type EntityType string

// Built-in entity types. The type set is open: the store accepts any
// non-empty type string, these are the ones the feeds and helpers know.
const (
	EntityCandidate    EntityType = "candidate"
	EntityOffice       EntityType = "office"
	EntityJurisdiction EntityType = "jurisdiction"
	EntityIssue        EntityType = "issue"
	EntityPrecinct     EntityType = "precinct"
	EntityOrganization EntityType = "organization"
)

// DefaultEntityTypes lists the built-in entity types in display order.
var DefaultEntityTypes = []EntityType{
	EntityCandidate,
	EntityOffice,
	EntityJurisdiction,
	EntityIssue,
	EntityPrecinct,
	EntityOrganization,
}

// Metadata carries variant-specific attributes. It is a single flat
// struct rather than a per-type union: every field is optional and
// serializes with omitempty, which keeps snapshots stable and lets
// feeds populate only what they know.
type Metadata struct {
	// Candidate fields.
	Party     string `json:"party,omitempty"`
	Status    string `json:"status,omitempty"`
	Incumbent bool   `json:"incumbent,omitempty"`

	// Office fields.
	Level        string `json:"level,omitempty"`
	OfficeType   string `json:"office_type,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	District     string `json:"district,omitempty"`
	TermLength   int    `json:"term_length,omitempty"`
	NextElection string `json:"next_election,omitempty"`

	// Issue fields.
	Category string   `json:"category,omitempty"`
	Salience float64  `json:"salience,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	// Jurisdiction and precinct fields.
	County           string  `json:"county,omitempty"`
	Population       int     `json:"population,omitempty"`
	RegisteredVoters int     `json:"registered_voters,omitempty"`
	Turnout          float64 `json:"turnout,omitempty"`
}

// Entity represents a typed node in the knowledge graph, such as a
// candidate, an office, or a precinct.
type Entity struct {
	ID        string     `json:"id"`
	Type      EntityType `json:"type"`
	Name      string     `json:"name"`
	Aliases   []string   `json:"aliases,omitempty"`
	Metadata  Metadata   `json:"metadata"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	c := *e
	if e.Aliases != nil {
		c.Aliases = append([]string(nil), e.Aliases...)
	}
	if e.Metadata.Keywords != nil {
		c.Metadata.Keywords = append([]string(nil), e.Metadata.Keywords...)
	}
	return &c
}

// Names returns the entity's display name followed by its aliases.
func (e *Entity) Names() []string {
	names := make([]string, 0, len(e.Aliases)+1)
	if e.Name != "" {
		names = append(names, e.Name)
	}
	for _, a := range e.Aliases {
		if a != "" {
			names = append(names, a)
		}
	}
	return names
}

// NameTokens returns the lower-cased whitespace tokens of the entity's
// name and every alias, deduplicated.
func (e *Entity) NameTokens() []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, name := range e.Names() {
		for _, tok := range Tokenize(name) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Tokenize splits a name into lower-cased whitespace-separated tokens.
// Apostrophes, hyphens and non-ASCII letters stay inside their token.
func Tokenize(name string) []string {
	return strings.Fields(strings.ToLower(name))
}
