// Package integration exercises the populate, query, snapshot and
// archive layers together, the way the CLI drives them.
package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civistack/canvass/internal/application/handlers"
	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/domain/services"
	"github.com/civistack/canvass/internal/infrastructure/archive/sqlite"
)

const resultsCSV = "county,precinct,office,district,party,candidate\n" +
	"Kent,12,City Council,3,DEM,Maria Garcia\n" +
	"Kent,12,City Council,3,REP,John Smith\n" +
	"Kent,14,Mayor,,DEM,Ana Lopez\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newArchive(t *testing.T, dir string) *sqlite.Repository {
	t.Helper()
	archive, err := sqlite.NewRepository(filepath.Join(dir, "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	require.NoError(t, archive.EnsureSchema(context.Background()))
	return archive
}

func TestWorkflow_PopulateQueryPath(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	ctx := context.Background()
	csvPath := writeFile(t, dir, "results.csv", resultsCSV)

	g := graph.New()
	archive := newArchive(t, dir)
	populateHandler := handlers.NewPopulateHandler(g, services.NewPopulateService(g), archive)
	queryHandler := handlers.NewQueryHandler(g)

	report, err := populateHandler.Handle(ctx, []string{csvPath}, handlers.PopulateOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Result.Errors)
	assert.Equal(t, 1, report.SnapshotVersion)

	// Three candidates, two offices, one jurisdiction, two precincts.
	stats := queryHandler.HandleStats()
	assert.Equal(t, 8, stats.EntityCount)
	assert.Equal(t, 3, stats.EntitiesByType[entities.EntityCandidate])

	candidates := queryHandler.HandleCandidates("office:city_council_district_3")
	require.Len(t, candidates, 2)

	// Garcia to Lopez: shared jurisdiction through the precincts.
	// garcia -> precinct:kent_12 <- kent -> precinct:kent_14 <- lopez
	path, err := queryHandler.HandlePath("candidate:maria_garcia", "candidate:ana_lopez", 0)
	require.NoError(t, err)
	require.NotNil(t, path)
	assert.Equal(t, "candidate:maria_garcia", path.Nodes[0].ID)
	assert.Equal(t, "candidate:ana_lopez", path.Nodes[len(path.Nodes)-1].ID)
	assert.Len(t, path.Edges, 4)

	// The populate run was audited.
	runs, err := archive.FindRuns(ctx, "populate", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestWorkflow_PopulateIsIdempotentWithSkip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	ctx := context.Background()
	csvPath := writeFile(t, dir, "results.csv", resultsCSV)

	g := graph.New()
	archive := newArchive(t, dir)
	handler := handlers.NewPopulateHandler(g, services.NewPopulateService(g), archive)

	first, err := handler.Handle(ctx, []string{csvPath}, handlers.PopulateOptions{})
	require.NoError(t, err)
	second, err := handler.Handle(ctx, []string{csvPath}, handlers.PopulateOptions{})
	require.NoError(t, err)

	assert.Equal(t, 8, first.Result.EntitiesAdded)
	assert.Equal(t, 0, second.Result.EntitiesAdded)
	assert.Equal(t, 8, second.Result.Skipped)
	assert.Equal(t, 8, g.Stats().EntityCount)
}

func TestWorkflow_ExportImportRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	ctx := context.Background()
	csvPath := writeFile(t, dir, "results.csv", resultsCSV)

	g := graph.New()
	archive := newArchive(t, dir)
	populateHandler := handlers.NewPopulateHandler(g, services.NewPopulateService(g), archive)
	snapshotHandler := handlers.NewSnapshotHandler(g, archive)

	_, err := populateHandler.Handle(ctx, []string{csvPath}, handlers.PopulateOptions{})
	require.NoError(t, err)

	exportPath := filepath.Join(dir, "export.json")
	require.NoError(t, snapshotHandler.HandleExport(exportPath))

	// Import into a fresh graph backed by a fresh archive.
	restored := graph.New()
	restoredArchive := newArchive(t, t.TempDir())
	restoredSnapshotHandler := handlers.NewSnapshotHandler(restored, restoredArchive)

	report, err := restoredSnapshotHandler.HandleImport(ctx, exportPath)
	require.NoError(t, err)
	assert.Equal(t, 8, report.EntityCount)
	assert.Equal(t, g.Stats(), restored.Stats())
	assert.Equal(t, g.AllEntities(), restored.AllEntities())

	// The exported file is a plain snapshot document.
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var snap graph.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Len(t, snap.Entities, 8)
}

func TestWorkflow_ArchiveRestoresAcrossSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	ctx := context.Background()
	csvPath := writeFile(t, dir, "results.csv", resultsCSV)

	// First session populates and archives.
	g := graph.New()
	archive := newArchive(t, dir)
	handler := handlers.NewPopulateHandler(g, services.NewPopulateService(g), archive)
	_, err := handler.Handle(ctx, []string{csvPath}, handlers.PopulateOptions{})
	require.NoError(t, err)

	// Second session restores from the same archive file.
	snap, version, err := archive.LatestSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 1, version)

	restored := graph.New()
	restored.Load(snap)
	assert.Equal(t, g.Stats(), restored.Stats())
	require.Len(t, restored.CandidatesForOffice("office:city_council_district_3"), 2)
}
