package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"docsearch/internal/config"
	"docsearch/internal/core"
	"docsearch/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: sqlDB}, nil
}

// NewWithDB wraps an existing handle; used by tests.
func NewWithDB(sqlDB *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: sqlDB}
}

// DB exposes the underlying handle so sibling stores (vector index) can share
// the pool.
func (c *DatabaseClient) DB() *sql.DB { return c.db }

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Implementing the db interface for user

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (id, first_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
	`
	_, err := c.db.ExecContext(ctx, q, user.ID, user.FirstName, user.Email, user.PasswordHash)
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, first_name, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.FirstName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Implementing the db interface for Document

func (c *DatabaseClient) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	const q = `
		INSERT INTO documents
			(id, owner_id, name, storage_key, mime_type, status, report_id, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, now(), now())
	`
	_, err := c.db.ExecContext(ctx, q,
		doc.ID, doc.OwnerID, doc.Name, doc.StorageKey, doc.MimeType, doc.Status, doc.ReportID)
	return err
}

func (c *DatabaseClient) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	const q = `
		SELECT id, owner_id, name, storage_key, mime_type, status, report_id, created_at, updated_at
		FROM documents
		WHERE id = $1
	`
	var d models.Document
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.OwnerID, &d.Name, &d.StorageKey, &d.MimeType, &d.Status, &d.ReportID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) ListDocumentsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Document, int, error) {
	var total int
	if err := c.db.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
		SELECT id, owner_id, name, storage_key, mime_type, status, report_id, created_at, updated_at
		FROM documents
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := c.db.QueryContext(ctx, q, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(
			&d.ID, &d.OwnerID, &d.Name, &d.StorageKey, &d.MimeType, &d.Status, &d.ReportID, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// TransitionDocumentStatus moves the row from→to atomically. The WHERE clause
// is the coordination point: whoever loses the race gets ErrStaleStatus.
func (c *DatabaseClient) TransitionDocumentStatus(ctx context.Context, id string, from, to models.DocumentStatus) error {
	const q = `
		UPDATE documents
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`
	res, err := c.db.ExecContext(ctx, q, id, from, to)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrStaleStatus
	}
	return nil
}

// Implementing the db interface for Report

// LinkReport inserts the report row and points the document at it in one
// transaction, so the relational side commits as a unit after the artifact
// is already safe in the blob store.
func (c *DatabaseClient) LinkReport(ctx context.Context, docID string, report *models.Report) error {
	if report == nil {
		return errors.New("nil report")
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reports (id, document_id, storage_key, created_at)
		VALUES ($1, $2, $3, now())
	`, report.ID, report.DocumentID, report.StorageKey); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE documents SET report_id = $2, updated_at = now() WHERE id = $1
	`, docID, report.ID); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (c *DatabaseClient) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	const q = `
		SELECT id, document_id, storage_key, created_at
		FROM reports
		WHERE id = $1
	`
	var r models.Report
	err := c.db.QueryRowContext(ctx, q, id).Scan(&r.ID, &r.DocumentID, &r.StorageKey, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteReportForDocument unlinks the document from its report and drops the
// report row in one transaction.
func (c *DatabaseClient) DeleteReportForDocument(ctx context.Context, docID string) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET report_id = NULL, updated_at = now() WHERE id = $1`, docID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reports WHERE document_id = $1`, docID); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (c *DatabaseClient) DeleteDocument(ctx context.Context, docID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, docID)
	return err
}

var _ core.DbClient = (*DatabaseClient)(nil)
