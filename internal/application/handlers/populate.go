// Package handlers contains application-level handlers that connect the
// CLI to domain services.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/domain/ports"
	"github.com/civistack/canvass/internal/domain/services"
	"github.com/civistack/canvass/internal/infrastructure/parsers"
)

// PopulateHandler handles bulk-loading data feeds into the graph.
type PopulateHandler struct {
	graph   *graph.Graph
	service *services.PopulateService
	archive ports.Archive
}

// NewPopulateHandler creates a new populate handler.
func NewPopulateHandler(g *graph.Graph, service *services.PopulateService, archive ports.Archive) *PopulateHandler {
	return &PopulateHandler{
		graph:   g,
		service: service,
		archive: archive,
	}
}

// PopulateOptions controls populate behavior.
type PopulateOptions struct {
	Format     string                    // "json", "csv", or "auto"
	DryRun     bool                      // Validate without saving
	OnConflict services.ConflictStrategy // How to handle existing records
}

// PopulateReport contains the result of a populate run.
type PopulateReport struct {
	Files           []string
	Result          *services.PopulateResult
	SnapshotVersion int // 0 when no snapshot was written.
}

// Handle parses the given feed files, loads them into the graph, and
// archives a snapshot of the result.
func (h *PopulateHandler) Handle(ctx context.Context, filePaths []string, opts PopulateOptions) (*PopulateReport, error) {
	feed := &parsers.Feed{}

	for _, filePath := range filePaths {
		parsed, err := h.parseFile(filePath, opts.Format)
		if err != nil {
			return nil, err
		}
		feed.Merge(parsed)
	}

	result := h.service.Populate(feed, services.PopulateOptions{
		DryRun:     opts.DryRun,
		OnConflict: opts.OnConflict,
	})

	report := &PopulateReport{
		Files:  filePaths,
		Result: result,
	}

	if opts.DryRun || result.EntitiesAdded+result.RelationshipsAdded == 0 {
		return report, nil
	}

	version, err := h.archive.SaveSnapshot(ctx, h.graph.Export(), fmt.Sprintf("populate from %d file(s)", len(filePaths)))
	if err != nil {
		return nil, fmt.Errorf("archiving snapshot: %w", err)
	}
	report.SnapshotVersion = version

	if err := h.archive.LogRun(ctx, "populate", map[string]any{
		"files":         filePaths,
		"entities":      result.EntitiesAdded,
		"relationships": result.RelationshipsAdded,
		"skipped":       result.Skipped,
		"errors":        len(result.Errors),
	}); err != nil {
		return nil, fmt.Errorf("logging run: %w", err)
	}

	return report, nil
}

// parseFile opens and parses one feed file.
func (h *PopulateHandler) parseFile(filePath, format string) (*parsers.Feed, error) {
	var parser parsers.Parser
	if format == "" || format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	feed, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	return feed, nil
}
