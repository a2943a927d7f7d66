// Package parsers provides parsers for loading graph feeds from
// external political data files.
package parsers

import (
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/civistack/canvass/internal/domain/entities"
)

// RawEntity is an entity record parsed from a feed before validation.
type RawEntity struct {
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Aliases  []string          `json:"aliases,omitempty"`
	Metadata entities.Metadata `json:"metadata,omitempty"`
	LineNum  int               `json:"-"` // Set by the parser.
}

// RawRelationship is a relationship record parsed from a feed.
type RawRelationship struct {
	ID         string `json:"id,omitempty"`
	SourceID   string `json:"source_id"`
	SourceType string `json:"source_type,omitempty"`
	TargetID   string `json:"target_id"`
	TargetType string `json:"target_type,omitempty"`
	Type       string `json:"type"`
	LineNum    int    `json:"-"`
}

// Feed holds every record parsed from one source.
type Feed struct {
	Entities      []RawEntity       `json:"entities"`
	Relationships []RawRelationship `json:"relationships"`
}

// Merge appends another feed's records.
func (f *Feed) Merge(other *Feed) {
	f.Entities = append(f.Entities, other.Entities...)
	f.Relationships = append(f.Relationships, other.Relationships...)
}

// Parser defines the interface for parsing feeds from various formats.
type Parser interface {
	Parse(r io.Reader) (*Feed, error)
}

// ForFormat returns the parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &ResultsCSVParser{}
	default:
		return nil
	}
}

// ForFile returns the parser for the file's extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &ResultsCSVParser{}
	default:
		return nil
	}
}

var (
	reNonAlphanumeric     = regexp.MustCompile(`[^a-z0-9_]`)
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Slugify converts a display name into a stable id suffix, so repeated
// parses of the same feed produce the same entity ids.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	name = reNonAlphanumeric.ReplaceAllString(name, "")
	name = reMultipleUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "unknown"
	}
	return name
}
