// Package vectorstore implements the vector index on pgvector. The table is
// the collection: a single cosine vector space plus the point payload as
// filterable columns.
package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	"docsearch/internal/core"
)

const pointsTable = "document_points"

type PgVectorStore struct {
	db  *sql.DB
	dim int
}

// NewPgVectorStore binds the store to a handle and the embedding dimension.
// The dimension is fixed per collection; vectors of any other length are
// rejected by the database.
func NewPgVectorStore(db *sql.DB, dim int) (*PgVectorStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dim)
	}
	return &PgVectorStore{db: db, dim: dim}, nil
}

// EnsureSchema creates the extension, the points table and the payload
// indexes (tenant_id is the partition key, document_id the group key).
// Idempotent.
func (s *PgVectorStore) EnsureSchema(ctx context.Context) error {
	ctxBoot, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          TEXT PRIMARY KEY,
			tenant_id   TEXT NOT NULL,
			document_id TEXT NOT NULL,
			label       TEXT NOT NULL DEFAULT '',
			text        TEXT NOT NULL,
			embedding   vector(%d) NOT NULL
		)`, pointsTable, s.dim),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_tenant ON %[1]s (tenant_id)`, pointsTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_document ON %[1]s (document_id)`, pointsTable),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctxBoot, stmt); err != nil {
			return fmt.Errorf("vector schema: %w", err)
		}
	}
	return nil
}

// Upsert writes all points in one transaction, keyed by point id. The commit
// is the acknowledgement: when Upsert returns nil the index has the points.
func (s *PgVectorStore) Upsert(ctx context.Context, points []core.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}
	for i := range points {
		if points[i].Payload.TenantID == "" {
			return core.ErrMissingTenant
		}
		if len(points[i].Vector) != s.dim {
			return fmt.Errorf("point %s: vector dimension %d, want %d", points[i].ID, len(points[i].Vector), s.dim)
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (id, tenant_id, document_id, label, text, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			document_id = EXCLUDED.document_id,
			label = EXCLUDED.label,
			text = EXCLUDED.text,
			embedding = EXCLUDED.embedding
	`, pointsTable)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range points {
		p := &points[i]
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Payload.TenantID, p.Payload.DocumentID, p.Payload.Label, p.Payload.Text,
			pgvector.NewVector(p.Vector),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// CountByDocument reports how many points one document has in one tenant's
// partition. Used by deletion to skip the delete call when nothing matches.
func (s *PgVectorStore) CountByDocument(ctx context.Context, tenantID, documentID string) (int, error) {
	if tenantID == "" {
		return 0, core.ErrMissingTenant
	}
	var n int
	q := fmt.Sprintf(`SELECT count(*) FROM %s WHERE tenant_id = $1 AND document_id = $2`, pointsTable)
	if err := s.db.QueryRowContext(ctx, q, tenantID, documentID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteByDocument removes every point matching tenant AND document in a
// single filtered statement.
func (s *PgVectorStore) DeleteByDocument(ctx context.Context, tenantID, documentID string) error {
	if tenantID == "" {
		return core.ErrMissingTenant
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND document_id = $2`, pointsTable)
	_, err := s.db.ExecContext(ctx, q, tenantID, documentID)
	return err
}

// QueryGrouped ranks points by cosine similarity inside the tenant partition,
// keeps the best GroupSize per document above the score threshold and returns
// the hits of at most Limit documents, best score first.
func (s *PgVectorStore) QueryGrouped(ctx context.Context, q core.GroupedQuery) ([]core.DocumentMatch, error) {
	if q.TenantID == "" {
		return nil, core.ErrMissingTenant
	}
	if len(q.Vector) != s.dim {
		return nil, fmt.Errorf("query vector dimension %d, want %d", len(q.Vector), s.dim)
	}
	groupSize := q.GroupSize
	if groupSize <= 0 {
		groupSize = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(q.Vector)

	filter := "tenant_id = $2"
	args := []any{vec, q.TenantID}
	if q.Label != "" {
		filter += " AND label = $3"
		args = append(args, q.Label)
	}
	args = append(args, groupSize, q.ScoreThreshold)

	stmt := fmt.Sprintf(`
		SELECT document_id, label, text, score FROM (
			SELECT document_id, label, text,
			       1 - (embedding <=> $1) AS score,
			       row_number() OVER (PARTITION BY document_id ORDER BY embedding <=> $1) AS rnk
			FROM %s
			WHERE %s
		) ranked
		WHERE rnk <= $%d AND score >= $%d
		ORDER BY score DESC
	`, pointsTable, filter, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.DocumentMatch
	seen := make(map[string]bool)
	for rows.Next() {
		var m core.DocumentMatch
		if err := rows.Scan(&m.DocumentID, &m.Label, &m.Text, &m.Score); err != nil {
			return nil, err
		}
		if !seen[m.DocumentID] {
			if len(seen) == limit {
				continue
			}
			seen[m.DocumentID] = true
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ core.VectorStore = (*PgVectorStore)(nil)
