package cmd

import (
	"context"
	"fmt"

	"github.com/elio-bot/elio/internal/archive"
	"github.com/elio-bot/elio/internal/config"
	"github.com/elio-bot/elio/internal/extract"
	"github.com/elio-bot/elio/internal/ingest"
	"github.com/elio-bot/elio/internal/llm"
	"github.com/elio-bot/elio/internal/persist"
	"github.com/elio-bot/elio/internal/postgres"
	"github.com/elio-bot/elio/internal/retrieval"
	"github.com/elio-bot/elio/internal/scraper"
	"github.com/elio-bot/elio/internal/vector"
)

// services holds the wired-up application stack shared by the commands.
type services struct {
	llm      *llm.Client
	store    *postgres.Store
	vector   *vector.Client
	pipeline *ingest.Pipeline
	reader   *retrieval.Service
}

// buildServices connects to Postgres, Elasticsearch, and Gemini, ensures the
// schema and index exist, and wires the capture pipeline on top.
func buildServices(ctx context.Context, cfg config.Config) (*services, error) {
	llmClient, err := llm.New(ctx, llm.Config{
		APIKey:         cfg.Gemini.APIKey,
		Model:          cfg.Gemini.Model,
		EmbeddingModel: cfg.Gemini.EmbeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	store, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	vectorClient, err := vector.New(vector.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Index:     cfg.Elasticsearch.Index,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	}, llmClient)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	if err := vectorClient.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensure index: %w", err)
	}

	var archiver persist.Archiver
	if cfg.Archive.Endpoint != "" {
		archiveClient, err := archive.New(archive.Config{
			Endpoint:        cfg.Archive.Endpoint,
			Bucket:          cfg.Archive.Bucket,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			UseSSL:          cfg.Archive.UseSSL,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create archive client: %w", err)
		}
		if err := archiveClient.EnsureBucket(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure archive bucket: %w", err)
		}
		archiver = archiveClient
	}

	pageScraper := scraper.New(scraper.Config{
		Timeout:   cfg.Scraper.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
	})

	registry := extract.NewRegistry(
		extract.NewLinkAdapter(pageScraper, llmClient),
		extract.NewImageAdapter(llmClient, cfg.Capture.Timeout),
		extract.NewVideoAdapter(llmClient),
	)
	gateway := persist.New(store, vectorClient, archiver)

	return &services{
		llm:      llmClient,
		store:    store,
		vector:   vectorClient,
		pipeline: ingest.New(registry, gateway, cfg.Capture.Timeout),
		reader:   retrieval.New(store, vectorClient),
	}, nil
}

func (s *services) Close() {
	s.store.Close()
}
