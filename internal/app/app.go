package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"docsearch/internal/config"
	"docsearch/internal/core/chunker"
	db "docsearch/internal/core/database"
	"docsearch/internal/core/extraction"
	"docsearch/internal/core/llm"
	objectclient "docsearch/internal/core/object-client"
	"docsearch/internal/core/vectorstore"
	"docsearch/internal/services"
)

type App struct {
	DBClient *db.DatabaseClient
	Embedder *llm.GeminiEmbedder
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	vectors, err := vectorstore.NewPgVectorStore(dbClient.DB(), cfg.EmbedDim)
	if err != nil {
		return nil, fmt.Errorf("couldn't build the vector store, %w", err)
	}
	if err := vectors.EnsureSchema(appCtx); err != nil {
		return nil, fmt.Errorf("couldn't prepare the vector schema, %w", err)
	}
	log.Println("Vector index initialized and ready.")

	objClient, err := objectclient.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Object client initialized and ready.")

	geminiEmbedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}

	pager := extraction.NewPagerClient(extraction.Config{
		URL:     cfg.PagerURL,
		Timeout: time.Duration(cfg.PagerTimeoutSec) * time.Second,
	})

	chunks, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("invalid chunking config, %w", err)
	}

	docService := services.NewDocumentService(dbClient, objClient, geminiEmbedder, pager, vectors, chunks, services.DocumentConfig{
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		EmbedBatchSize: cfg.EmbedBatchSize,
		ProcessTimeout: time.Duration(cfg.ProcessTimeoutSec) * time.Second,
		PresignExpiry:  time.Duration(cfg.PresignExpirySec) * time.Second,
	})

	searchService := services.NewSearchService(dbClient, objClient, geminiEmbedder, vectors, services.SearchConfig{
		Limit:          cfg.SearchLimit,
		ScoreThreshold: cfg.ScoreThreshold,
		PresignExpiry:  time.Duration(cfg.PresignExpirySec) * time.Second,
	})

	server := NewServer(cfg, dbClient, docService, searchService)

	return &App{DBClient: dbClient, Embedder: geminiEmbedder, Server: server}, nil
}

func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
