// Package sqlite provides a SQLite implementation of the Archive interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.Archive using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository opens or creates the archive database at the given path.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("archive path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the archive schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Versioned graph snapshots (full serialized graph per version)
	CREATE TABLE IF NOT EXISTS snapshots (
		version INTEGER PRIMARY KEY AUTOINCREMENT,
		note TEXT,
		entity_count INTEGER NOT NULL,
		relationship_count INTEGER NOT NULL,
		data TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Run audit trail (populate/import/ingest actions)
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_action ON runs(action);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveSnapshot stores a new snapshot version and returns its number.
func (r *Repository) SaveSnapshot(ctx context.Context, snap *graph.Snapshot, note string) (int, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("marshaling snapshot: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (note, entity_count, relationship_count, data, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		note, len(snap.Entities), len(snap.Relationships), string(data), timeNow().UTC())
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}

	version, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting snapshot version: %w", err)
	}

	return int(version), nil
}

// LatestSnapshot returns the most recent snapshot and its version, or
// nil and 0 when the archive is empty.
func (r *Repository) LatestSnapshot(ctx context.Context) (*graph.Snapshot, int, error) {
	var version int
	var data string

	err := r.db.QueryRowContext(ctx, `
		SELECT version, data FROM snapshots
		ORDER BY version DESC LIMIT 1`).Scan(&version, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("querying latest snapshot: %w", err)
	}

	var snap graph.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, 0, fmt.Errorf("unmarshaling snapshot: %w", err)
	}

	return &snap, version, nil
}

// SnapshotVersions lists stored versions, newest first.
func (r *Repository) SnapshotVersions(ctx context.Context) ([]ports.SnapshotVersion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT version, COALESCE(note, ''), entity_count, relationship_count, created_at
		FROM snapshots ORDER BY version DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot versions: %w", err)
	}
	defer rows.Close()

	var versions []ports.SnapshotVersion
	for rows.Next() {
		var v ports.SnapshotVersion
		if err := rows.Scan(&v.Version, &v.Note, &v.EntityCount, &v.RelationshipCount, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot versions: %w", err)
	}

	return versions, nil
}

// LogRun records an action in the audit trail.
func (r *Repository) LogRun(ctx context.Context, action string, details map[string]any) error {
	var detailsJSON string
	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling run details: %w", err)
		}
		detailsJSON = string(data)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (action, details, created_at) VALUES (?, ?, ?)`,
		action, detailsJSON, timeNow().UTC())
	if err != nil {
		return fmt.Errorf("inserting run entry: %w", err)
	}

	return nil
}

// FindRuns returns audit entries for an action, newest first. An empty
// action matches all entries.
func (r *Repository) FindRuns(ctx context.Context, action string, limit int) ([]ports.RunEntry, error) {
	query := `SELECT id, action, COALESCE(details, ''), created_at FROM runs`
	args := []any{}
	if action != "" {
		query += ` WHERE action = ?`
		args = append(args, action)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var entries []ports.RunEntry
	for rows.Next() {
		var entry ports.RunEntry
		var detailsJSON string
		if err := rows.Scan(&entry.ID, &entry.Action, &detailsJSON, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run entry: %w", err)
		}
		if detailsJSON != "" {
			if err := json.Unmarshal([]byte(detailsJSON), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling run details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return entries, nil
}
