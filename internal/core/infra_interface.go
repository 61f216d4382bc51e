package core

import (
	"context"
	"errors"
	"time"

	"docsearch/internal/models"
)

// ErrStaleStatus is returned by TransitionDocumentStatus when the row's
// status no longer matches the expected one, i.e. another caller moved the
// document first. Status transitions are the sole coordination point between
// processing and deletion, so callers translate this into a conflict.
var ErrStaleStatus = errors.New("document status changed concurrently")

// DbClient defines all persistence operations the services need.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	// ListDocumentsByOwner returns one page of the owner's documents plus the
	// total count for pagination.
	ListDocumentsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Document, int, error)

	// TransitionDocumentStatus is a compare-and-set: the row is updated only
	// while its status still equals from. ErrStaleStatus otherwise.
	TransitionDocumentStatus(ctx context.Context, id string, from, to models.DocumentStatus) error

	// LinkReport inserts the report row and sets the document's report
	// reference in one transaction.
	LinkReport(ctx context.Context, docID string, report *models.Report) error
	GetReportByID(ctx context.Context, id string) (*models.Report, error)

	// DeleteReportForDocument unlinks and removes the document's report row
	// in one transaction. No-op when the document has no report.
	DeleteReportForDocument(ctx context.Context, docID string) error
	// DeleteDocument removes the document row itself.
	DeleteDocument(ctx context.Context, docID string) error

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// The bucket is bound at construction; keys are namespaced by purpose
// (documents/..., reports/...).
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
	GetFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error

	// PresignGet returns a time-limited read URL for the object, served
	// inline with the given response content type.
	PresignGet(ctx context.Context, key string, contentType string, expiry time.Duration) (string, error)
}
