// Package services contains domain business logic.
package services

import (
	"fmt"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle records whose id already
// exists in the graph.
type ConflictStrategy string

const (
	// ConflictSkip skips records that already exist (by id).
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces existing records with the feed data.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// PopulateOptions controls populate behavior.
type PopulateOptions struct {
	DryRun     bool             // Validate without inserting.
	OnConflict ConflictStrategy // How to handle existing ids.
}

// FeedError describes an invalid record in a feed.
type FeedError struct {
	Line    int    // Record number (1-indexed, 0 if unknown).
	Field   string // Which field has the error.
	Value   string // The invalid value.
	Message string // Human-readable error message.
}

func (e FeedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// PopulateResult summarizes a populate run.
type PopulateResult struct {
	EntitiesAdded      int
	RelationshipsAdded int
	Skipped            int
	Errors             []FeedError
}

// PopulateService bulk-loads entities and relationships from parsed
// data feeds into the knowledge graph.
type PopulateService struct {
	graph *graph.Graph
}

// NewPopulateService creates a new populate service.
func NewPopulateService(g *graph.Graph) *PopulateService {
	return &PopulateService{graph: g}
}

// Populate validates the feed and inserts its records into the graph.
// Invalid records are reported and skipped; valid ones still load.
func (s *PopulateService) Populate(feed *parsers.Feed, opts PopulateOptions) *PopulateResult {
	result := &PopulateResult{}
	if feed == nil {
		return result
	}
	if opts.OnConflict == "" {
		opts.OnConflict = ConflictSkip
	}

	for i := range feed.Entities {
		raw := &feed.Entities[i]
		if err := validateRawEntity(raw, lineOf(raw.LineNum, i)); err != nil {
			result.Errors = append(result.Errors, *err)
			continue
		}
		if raw.ID != "" && s.graph.GetEntity(raw.ID) != nil && opts.OnConflict == ConflictSkip {
			result.Skipped++
			continue
		}
		if !opts.DryRun {
			s.graph.AddEntity(&entities.Entity{
				ID:       raw.ID,
				Type:     entities.EntityType(raw.Type),
				Name:     raw.Name,
				Aliases:  raw.Aliases,
				Metadata: raw.Metadata,
			})
		}
		result.EntitiesAdded++
	}

	for i := range feed.Relationships {
		raw := &feed.Relationships[i]
		if err := validateRawRelationship(raw, lineOf(raw.LineNum, i)); err != nil {
			result.Errors = append(result.Errors, *err)
			continue
		}
		if raw.ID != "" && s.graph.GetRelationship(raw.ID) != nil && opts.OnConflict == ConflictSkip {
			result.Skipped++
			continue
		}
		if !opts.DryRun {
			s.graph.AddRelationship(&entities.Relationship{
				ID:         raw.ID,
				SourceID:   raw.SourceID,
				SourceType: entities.EntityType(raw.SourceType),
				TargetID:   raw.TargetID,
				TargetType: entities.EntityType(raw.TargetType),
				Type:       entities.RelationType(raw.Type),
			})
		}
		result.RelationshipsAdded++
	}

	return result
}

func lineOf(lineNum, index int) int {
	if lineNum > 0 {
		return lineNum
	}
	return index + 1
}

// validateRawEntity checks the minimal caller contract: a type and a
// name. Metadata is accepted as given; the graph does not validate it.
func validateRawEntity(raw *parsers.RawEntity, lineNum int) *FeedError {
	if raw.Type == "" {
		return &FeedError{Line: lineNum, Field: "type", Message: "missing required field: type"}
	}
	if raw.Name == "" {
		return &FeedError{Line: lineNum, Field: "name", Message: "missing required field: name"}
	}
	return nil
}

func validateRawRelationship(raw *parsers.RawRelationship, lineNum int) *FeedError {
	if raw.SourceID == "" {
		return &FeedError{Line: lineNum, Field: "source_id", Message: "missing required field: source_id"}
	}
	if raw.TargetID == "" {
		return &FeedError{Line: lineNum, Field: "target_id", Message: "missing required field: target_id"}
	}
	if raw.Type == "" {
		return &FeedError{Line: lineNum, Field: "type", Message: "missing required field: type"}
	}
	return nil
}
