package entities

import "time"

// RelationType defines the kind of relationship between entities.
type RelationType string

const (
	RelationRunningFor    RelationType = "running_for"
	RelationSupportsIssue RelationType = "supports_issue"
	RelationOpposesIssue  RelationType = "opposes_issue"
	RelationRepresents    RelationType = "represents"
	RelationSalientIn     RelationType = "salient_in"
	RelationCampaignedIn  RelationType = "campaigned_in"
	RelationEndorsedBy    RelationType = "endorsed_by"
	RelationDonatedTo     RelationType = "donated_to"
	RelationContains      RelationType = "contains"
)

// Relationship represents a typed directed edge between two entities.
// Source and target types are denormalized onto the edge so queries can
// filter without a lookup; the ids are not required to reference
// entities present in the store.
type Relationship struct {
	ID         string       `json:"id"`
	SourceID   string       `json:"source_id"`
	SourceType EntityType   `json:"source_type,omitempty"`
	TargetID   string       `json:"target_id"`
	TargetType EntityType   `json:"target_type,omitempty"`
	Type       RelationType `json:"type"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Clone returns a copy of the relationship.
func (r *Relationship) Clone() *Relationship {
	c := *r
	return &c
}
