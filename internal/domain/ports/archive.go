package ports

import (
	"context"
	"time"

	"github.com/civistack/canvass/internal/domain/graph"
)

// Archive persists versioned graph snapshots and an audit trail of
// populate and import runs. The graph itself stays in-memory; snapshots
// are the only serialized boundary.
type Archive interface {
	// EnsureSchema creates the archive schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the archive.
	Close() error

	// SaveSnapshot stores a new snapshot version and returns its number.
	SaveSnapshot(ctx context.Context, snap *graph.Snapshot, note string) (int, error)

	// LatestSnapshot returns the most recent snapshot and its version,
	// or nil and 0 when the archive is empty.
	LatestSnapshot(ctx context.Context) (*graph.Snapshot, int, error)

	// SnapshotVersions lists stored versions, newest first.
	SnapshotVersions(ctx context.Context) ([]SnapshotVersion, error)

	// LogRun records an action in the audit trail.
	LogRun(ctx context.Context, action string, details map[string]any) error

	// FindRuns returns audit entries for an action, newest first.
	FindRuns(ctx context.Context, action string, limit int) ([]RunEntry, error)
}

// SnapshotVersion summarizes a stored snapshot.
type SnapshotVersion struct {
	Version           int       `json:"version"`
	Note              string    `json:"note,omitempty"`
	EntityCount       int       `json:"entity_count"`
	RelationshipCount int       `json:"relationship_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// RunEntry is one audit trail record.
type RunEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
