package parsers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/civistack/canvass/internal/domain/entities"
)

// ResultsCSVParser parses precinct-level election results CSV files of
// the shape published by state election repositories.
// Expected columns: county, precinct, office, district, party, candidate
// (required: office, candidate). One row yields the jurisdiction,
// precinct, office and candidate entities it names plus running_for,
// campaigned_in and contains relationships, deduplicated across rows.
type ResultsCSVParser struct{}

// Parse reads CSV from the reader and returns the derived feed.
func (p *ResultsCSVParser) Parse(r io.Reader) (*Feed, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *ResultsCSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	requiredCols := []string{"office", "candidate"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and folds them into a feed.
func (p *ResultsCSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) (*Feed, error) {
	feed := &Feed{}
	seenEntities := make(map[string]struct{})
	seenRelationships := make(map[string]struct{})
	lineNum := 1 // Header is line 1.

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		p.foldRecord(feed, record, colIndex, lineNum, seenEntities, seenRelationships)
	}

	return feed, nil
}

// foldRecord converts one results row into entities and relationships,
// skipping anything already emitted.
func (p *ResultsCSVParser) foldRecord(feed *Feed, record []string, colIndex map[string]int, lineNum int, seenEntities, seenRelationships map[string]struct{}) {
	county := getColumn(record, colIndex, "county")
	precinct := getColumn(record, colIndex, "precinct")
	office := getColumn(record, colIndex, "office")
	district := getColumn(record, colIndex, "district")
	party := getColumn(record, colIndex, "party")
	candidate := getColumn(record, colIndex, "candidate")

	if office == "" || candidate == "" {
		return
	}

	addEntity := func(e RawEntity) {
		if _, dup := seenEntities[e.ID]; dup {
			return
		}
		seenEntities[e.ID] = struct{}{}
		e.LineNum = lineNum
		feed.Entities = append(feed.Entities, e)
	}
	addRelationship := func(rel RawRelationship) {
		key := rel.SourceID + "--" + rel.Type + "--" + rel.TargetID
		if _, dup := seenRelationships[key]; dup {
			return
		}
		seenRelationships[key] = struct{}{}
		rel.LineNum = lineNum
		feed.Relationships = append(feed.Relationships, rel)
	}

	var jurisdictionID string
	if county != "" {
		jurisdictionID = "jurisdiction:" + Slugify(county)
		addEntity(RawEntity{
			ID:       jurisdictionID,
			Type:     string(entities.EntityJurisdiction),
			Name:     county + " County",
			Metadata: entities.Metadata{County: county},
		})
	}

	var precinctID string
	if precinct != "" && county != "" {
		precinctID = "precinct:" + Slugify(county) + "_" + Slugify(precinct)
		addEntity(RawEntity{
			ID:       precinctID,
			Type:     string(entities.EntityPrecinct),
			Name:     precinct,
			Metadata: entities.Metadata{County: county},
		})
		addRelationship(RawRelationship{
			SourceID:   jurisdictionID,
			SourceType: string(entities.EntityJurisdiction),
			TargetID:   precinctID,
			TargetType: string(entities.EntityPrecinct),
			Type:       string(entities.RelationContains),
		})
	}

	officeName := office
	officeSlug := Slugify(office)
	if district != "" {
		officeName = fmt.Sprintf("%s - District %s", office, district)
		officeSlug = officeSlug + "_district_" + Slugify(district)
	}
	officeID := "office:" + officeSlug
	addEntity(RawEntity{
		ID:   officeID,
		Type: string(entities.EntityOffice),
		Name: officeName,
		Metadata: entities.Metadata{
			District:     district,
			Jurisdiction: county,
		},
	})

	candidateID := "candidate:" + Slugify(candidate)
	addEntity(RawEntity{
		ID:       candidateID,
		Type:     string(entities.EntityCandidate),
		Name:     candidate,
		Metadata: entities.Metadata{Party: party},
	})

	addRelationship(RawRelationship{
		SourceID:   candidateID,
		SourceType: string(entities.EntityCandidate),
		TargetID:   officeID,
		TargetType: string(entities.EntityOffice),
		Type:       string(entities.RelationRunningFor),
	})
	if precinctID != "" {
		addRelationship(RawRelationship{
			SourceID:   candidateID,
			SourceType: string(entities.EntityCandidate),
			TargetID:   precinctID,
			TargetType: string(entities.EntityPrecinct),
			Type:       string(entities.RelationCampaignedIn),
		})
	}
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
