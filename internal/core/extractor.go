package core

import (
	"context"

	"docsearch/internal/models"
)

// LayoutExtractor invokes the external layout-analysis service on raw
// document bytes. It returns both the raw response body (stored verbatim as
// the report artifact) and the parsed report. A non-2xx response is an error.
type LayoutExtractor interface {
	Extract(ctx context.Context, filename, mimeType string, content []byte) (raw []byte, report *models.ExtractionReport, err error)
}
