// Package extraction calls the external layout-analysis service ("pager")
// that turns raw document bytes into a structured page/region report.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"docsearch/internal/core"
	"docsearch/internal/models"
)

// processOptions is the options blob forwarded to the service as-is.
const processOptions = `{"glam_rows": true}`

type PagerClient struct {
	url    string
	client *http.Client
}

type Config struct {
	URL     string
	Timeout time.Duration
}

// NewPagerClient builds the client. The timeout is generous — layout
// analysis of a large PDF takes a while — but never unbounded.
func NewPagerClient(cfg Config) *PagerClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &PagerClient{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

// Extract posts the document bytes as multipart form data and returns both
// the raw response body (persisted verbatim as the report artifact) and the
// parsed report. Any non-2xx response is a hard failure.
func (p *PagerClient) Extract(ctx context.Context, filename, mimeType string, content []byte) ([]byte, *models.ExtractionReport, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("process", processOptions); err != nil {
		return nil, nil, fmt.Errorf("pager request: %w", err)
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", "application/"+mimeType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, nil, fmt.Errorf("pager request: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, nil, fmt.Errorf("pager request: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, nil, fmt.Errorf("pager request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/", &body)
	if err != nil {
		return nil, nil, fmt.Errorf("pager request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("pager call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("pager returned %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("pager response: %w", err)
	}

	var report models.ExtractionReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, nil, fmt.Errorf("pager response decode: %w", err)
	}

	return raw, &report, nil
}

var _ core.LayoutExtractor = (*PagerClient)(nil)
