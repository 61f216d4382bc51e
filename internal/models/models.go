package models

import (
	"time"
)

// User represents an authenticated user of the system. The user ID doubles
// as the tenant identifier in the vector index.
type User struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Document represents one user-uploaded file. StorageKey is the unique
// object-store name (without purpose prefix or extension); the full blob key
// comes from ObjectKey.
type Document struct {
	ID         string         `db:"id" json:"id"`
	OwnerID    string         `db:"owner_id" json:"owner_id"`
	Name       string         `db:"name" json:"name"`
	StorageKey string         `db:"storage_key" json:"-"`
	MimeType   string         `db:"mime_type" json:"mime_type"`
	Status     DocumentStatus `db:"status" json:"status"`
	ReportID   *string        `db:"report_id" json:"report_id,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// ObjectKey returns the blob-store key for the document's own bytes.
func (d *Document) ObjectKey() string {
	return "documents/" + d.StorageKey + "." + d.MimeType
}

// FileName is the user-facing name with extension, as sent to the extractor
// and offered on download.
func (d *Document) FileName() string {
	return d.Name + "." + d.MimeType
}

// Report is the cached extraction artifact for exactly one document.
// The JSON body lives in the blob store; only the link is relational.
type Report struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	StorageKey string    `db:"storage_key" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ObjectKey returns the blob-store key for the report artifact.
func (r *Report) ObjectKey() string {
	return "reports/" + r.StorageKey + ".json"
}
