package main

import (
	"context"
	"fmt"
	"os"

	"github.com/civistack/canvass/internal/application/handlers"
	"github.com/civistack/canvass/internal/domain/graph"
	"github.com/civistack/canvass/internal/domain/services"
	"github.com/civistack/canvass/internal/infrastructure/archive/sqlite"
	"github.com/civistack/canvass/internal/infrastructure/config"
	embedder "github.com/civistack/canvass/internal/infrastructure/embedder/openai"
	llm "github.com/civistack/canvass/internal/infrastructure/llm/openai"
	"github.com/civistack/canvass/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config          *config.Config
	Graph           *graph.Graph
	Archive         *sqlite.Repository
	PopulateHandler *handlers.PopulateHandler
	QueryHandler    *handlers.QueryHandler
	SnapshotHandler *handlers.SnapshotHandler
	EntityHandler   *handlers.EntityHandler
}

// withDeps loads config, opens the archive, restores the latest graph
// snapshot into memory, and calls the provided function. It handles
// cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	archive, err := sqlite.NewRepository(cfg.ArchivePath(cwd))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer archive.Close()

	if err := archive.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring archive schema: %w", err)
	}

	g := graph.New()
	snap, _, err := archive.LatestSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}
	if snap != nil {
		g.Load(snap)
	}

	deps := &Deps{
		Config:          cfg,
		Graph:           g,
		Archive:         archive,
		PopulateHandler: handlers.NewPopulateHandler(g, services.NewPopulateService(g), archive),
		QueryHandler:    handlers.NewQueryHandler(g),
		SnapshotHandler: handlers.NewSnapshotHandler(g, archive),
		EntityHandler:   handlers.NewEntityHandler(g, archive),
	}

	return fn(deps)
}

// withEnrichment additionally builds the embedder, the intel document
// store, and the LLM client for commands that need them.
func withEnrichment(ctx context.Context, fn func(*Deps, *handlers.EnrichHandler) error) error {
	return withDeps(ctx, func(d *Deps) error {
		emb, err := embedder.NewEmbedder(d.Config.Embedder)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		repo, err := qdrant.NewRepository(d.Config.Qdrant)
		if err != nil {
			return fmt.Errorf("creating qdrant repository: %w", err)
		}
		defer repo.Close()

		if err := repo.EnsureCollection(ctx, embedder.VectorSize); err != nil {
			return fmt.Errorf("ensuring collection: %w", err)
		}

		llmClient, err := llm.NewClient(d.Config.LLM)
		if err != nil {
			return fmt.Errorf("creating llm client: %w", err)
		}

		enrich := services.NewEnrichmentService(d.Graph, emb, repo, llmClient)
		intel := services.NewIntelService(llmClient, emb, repo, d.Graph)
		handler := handlers.NewEnrichHandler(d.Graph, enrich, intel, d.Archive)

		return fn(d, handler)
	})
}
