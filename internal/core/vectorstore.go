package core

import (
	"context"
	"errors"
)

// ErrMissingTenant rejects any vector index call that arrives without a
// tenant identifier. Tenant filtering is enforced here, not left to callers.
var ErrMissingTenant = errors.New("tenant id is required for vector index access")

// VectorPayload travels with every indexed point. TenantID and DocumentID
// are the filterable fields; Label is optional.
type VectorPayload struct {
	TenantID   string
	DocumentID string
	Label      string
	Text       string
}

// VectorPoint is one indexed unit: a stable identifier, a fixed-dimension
// embedding and its payload. Upserting the same ID twice is safe.
type VectorPoint struct {
	ID      string
	Vector  []float32
	Payload VectorPayload
}

// GroupedQuery asks for the best GroupSize matches per distinct document,
// at most Limit documents, all scoped to one tenant. Matches scoring below
// ScoreThreshold are excluded. Label narrows to one region label when set.
type GroupedQuery struct {
	TenantID       string
	Vector         []float32
	Label          string
	GroupSize      int
	Limit          int
	ScoreThreshold float64
}

// DocumentMatch is one scored hit, at most GroupSize per document.
type DocumentMatch struct {
	DocumentID string
	Label      string
	Text       string
	Score      float64
}

// VectorStore is tenant-scoped CRUD over the vector index. Upsert must be
// acknowledged by the index before returning; DeleteByDocument is a single
// filtered delete, never item-by-item.
type VectorStore interface {
	Upsert(ctx context.Context, points []VectorPoint) error
	CountByDocument(ctx context.Context, tenantID, documentID string) (int, error)
	DeleteByDocument(ctx context.Context, tenantID, documentID string) error
	QueryGrouped(ctx context.Context, q GroupedQuery) ([]DocumentMatch, error)
}
