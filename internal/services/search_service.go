package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docsearch/internal/core"
	"docsearch/internal/core/chunker"
)

// SearchConfig tunes grouped semantic search.
type SearchConfig struct {
	Limit          int
	ScoreThreshold float64
	PresignExpiry  time.Duration
}

// SearchService answers "which documents talk about X" with one best
// passage per document, scoped to the caller.
type SearchService struct {
	db       core.DbClient
	obj      core.ObjectClient
	embedder core.EmbeddingProvider
	vectors  core.VectorStore
	cfg      SearchConfig
}

func NewSearchService(db core.DbClient, obj core.ObjectClient, embedder core.EmbeddingProvider, vectors core.VectorStore, cfg SearchConfig) *SearchService {
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = time.Hour
	}
	return &SearchService{db: db, obj: obj, embedder: embedder, vectors: vectors, cfg: cfg}
}

// SearchResult is one matching document with its single best passage.
type SearchResult struct {
	DocumentID string  `json:"document_id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Label      string  `json:"label"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
	URL        string  `json:"url"`
}

// Search embeds the query and runs a grouped similarity query, one point per
// document, always filtered to the caller's tenant. An empty label matches
// every region kind.
func (s *SearchService) Search(ctx context.Context, ownerID, query, label string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrValidation)
	}

	vecs, err := s.embedder.EmbedTexts(ctx, []string{chunker.Normalize(query)})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vecs))
	}

	matches, err := s.vectors.QueryGrouped(ctx, core.GroupedQuery{
		TenantID:       ownerID,
		Vector:         vecs[0],
		Label:          label,
		GroupSize:      1,
		Limit:          s.cfg.Limit,
		ScoreThreshold: s.cfg.ScoreThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		doc, err := s.db.GetDocumentByID(ctx, m.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("load document %s: %w", m.DocumentID, err)
		}
		if doc == nil {
			// The index can briefly outlive a deleted document; skip it.
			continue
		}
		url, err := s.obj.PresignGet(ctx, doc.ObjectKey(), "application/pdf", s.cfg.PresignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", doc.ObjectKey(), err)
		}
		results = append(results, SearchResult{
			DocumentID: doc.ID,
			Name:       doc.FileName(),
			Status:     string(doc.Status),
			Label:      m.Label,
			Snippet:    m.Text,
			Score:      m.Score,
			URL:        url,
		})
	}
	return results, nil
}
