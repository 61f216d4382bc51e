package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docsearch/internal/core"
	"docsearch/internal/core/chunker"
	"docsearch/internal/models"
)

var pdfMagic = []byte("%PDF-")

// DocumentConfig tunes the lifecycle manager.
type DocumentConfig struct {
	MaxUploadBytes int64
	EmbedBatchSize int
	ProcessTimeout time.Duration
	PresignExpiry  time.Duration
}

// DocumentService drives a document through its lifecycle: upload, the
// extract→chunk→embed→index pipeline, listing and cascading deletion.
type DocumentService struct {
	db        core.DbClient
	obj       core.ObjectClient
	embedder  core.EmbeddingProvider
	extractor core.LayoutExtractor
	vectors   core.VectorStore
	chunks    *chunker.Chunker
	cfg       DocumentConfig
}

func NewDocumentService(
	db core.DbClient,
	obj core.ObjectClient,
	embedder core.EmbeddingProvider,
	extractor core.LayoutExtractor,
	vectors core.VectorStore,
	chunks *chunker.Chunker,
	cfg DocumentConfig,
) *DocumentService {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 40 << 20
	}
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = 16
	}
	if cfg.ProcessTimeout == 0 {
		cfg.ProcessTimeout = 5 * time.Minute
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = time.Hour
	}
	return &DocumentService{
		db: db, obj: obj, embedder: embedder, extractor: extractor,
		vectors: vectors, chunks: chunks, cfg: cfg,
	}
}

// Upload validates the file, stores its bytes and creates the document row
// in UPLOADED. Validation failures leave no trace anywhere; a failed row
// insert rolls the blob back.
func (s *DocumentService) Upload(ctx context.Context, ownerID, filename string, content []byte) (*models.Document, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: no file was provided", ErrValidation)
	}
	if int64(len(content)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds the %d MB limit", ErrValidation, s.cfg.MaxUploadBytes>>20)
	}
	if !bytes.HasPrefix(content, pdfMagic) {
		return nil, fmt.Errorf("%w: unsupported file type, only PDF is accepted", ErrValidation)
	}

	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = "document"
	}

	doc := &models.Document{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Name:       name,
		StorageKey: uuid.NewString(),
		MimeType:   "pdf",
		Status:     models.StatusUploaded,
	}

	if err := s.obj.UploadFile(ctx, doc.ObjectKey(), content, "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	if err := s.db.CreateDocument(ctx, doc); err != nil {
		// Rollback: the blob must not outlive the failed row.
		if delErr := s.obj.DeleteFile(ctx, doc.ObjectKey()); delErr != nil {
			log.Printf("upload rollback failed for %s: %v", doc.ObjectKey(), delErr)
		}
		return nil, fmt.Errorf("store document metadata: %w", err)
	}
	return doc, nil
}

// Process runs the full pipeline for one document. Ownership and lifecycle
// checks fail fast with no side effects; once the PROCESSING transition is
// committed, any failure lands in PROCESSING_FAILED and the caller only sees
// a generic processing error.
func (s *DocumentService) Process(ctx context.Context, ownerID, docID string) error {
	doc, err := s.db.GetDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return ErrNotFound
	}
	if doc.OwnerID != ownerID {
		return ErrForbidden
	}
	if !doc.Status.CanTransitionTo(models.StatusProcessing) {
		return fmt.Errorf("%w: %v", ErrConflict, &models.TransitionError{From: doc.Status, To: models.StatusProcessing})
	}

	// Commit PROCESSING before any external call; a crash mid-run is then
	// observable as a stuck PROCESSING row rather than lost work.
	if err := s.db.TransitionDocumentStatus(ctx, docID, doc.Status, models.StatusProcessing); err != nil {
		if err == core.ErrStaleStatus {
			return fmt.Errorf("%w: document is already being processed", ErrConflict)
		}
		return fmt.Errorf("transition to processing: %w", err)
	}

	// The run is detached from the request context: an impatient client must
	// not abort a half-indexed document. The timeout still bounds it.
	procCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ProcessTimeout)
	defer cancel()

	if err := s.runPipeline(procCtx, doc); err != nil {
		log.Printf("processing document %s for user %s failed: %v", docID, ownerID, err)
		s.markFailed(docID)
		return ErrProcessingFailed
	}

	if err := s.db.TransitionDocumentStatus(procCtx, docID, models.StatusProcessing, models.StatusProcessed); err != nil {
		log.Printf("finalizing document %s failed: %v", docID, err)
		// Leaving the row in PROCESSING would block retries and deletion.
		s.markFailed(docID)
		return ErrProcessingFailed
	}
	return nil
}

// markFailed records the terminal failure state on a fresh context so it is
// durable even when the run died from a timeout.
func (s *DocumentService) markFailed(docID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.db.TransitionDocumentStatus(ctx, docID, models.StatusProcessing, models.StatusProcessingFailed); err != nil {
		log.Printf("recording failure for document %s failed: %v", docID, err)
	}
}

// runPipeline is the sequential pipeline for one document: obtain the report
// (extract or cached), chunk, embed, index.
func (s *DocumentService) runPipeline(ctx context.Context, doc *models.Document) error {
	report, err := s.obtainReport(ctx, doc)
	if err != nil {
		return err
	}

	type labeledChunk struct {
		label string
		text  string
	}
	var all []labeledChunk
	for _, group := range report.TextByLabel() {
		normalized := chunker.Normalize(group.Text)
		for _, ch := range s.chunks.Split(normalized) {
			all = append(all, labeledChunk{label: group.Label, text: ch})
		}
	}
	if len(all) == 0 {
		log.Printf("document %s produced no text; nothing to index", doc.ID)
		return nil
	}

	// Embedding is the expensive stage; it runs as its own cancelable unit
	// so the orchestration never blocks past the run deadline.
	points := make([]core.VectorPoint, len(all))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for start := 0; start < len(all); start += s.cfg.EmbedBatchSize {
			end := start + s.cfg.EmbedBatchSize
			if end > len(all) {
				end = len(all)
			}
			texts := make([]string, 0, end-start)
			for _, c := range all[start:end] {
				texts = append(texts, c.text)
			}
			vecs, err := s.embedder.EmbedTexts(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed chunks [%d:%d): %w", start, end, err)
			}
			if len(vecs) != len(texts) {
				return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(texts))
			}
			for i, vec := range vecs {
				idx := start + i
				points[idx] = core.VectorPoint{
					ID:     pointID(doc.ID, idx),
					Vector: vec,
					Payload: core.VectorPayload{
						TenantID:   doc.OwnerID,
						DocumentID: doc.ID,
						Label:      all[idx].label,
						Text:       all[idx].text,
					},
				}
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.vectors.Upsert(ctx, points); err != nil {
		return fmt.Errorf("index chunks: %w", err)
	}
	return nil
}

// obtainReport extracts on the first run and persists the artifact before
// the relational link commits; later runs fetch the cached artifact instead
// of re-extracting.
func (s *DocumentService) obtainReport(ctx context.Context, doc *models.Document) (*models.ExtractionReport, error) {
	if doc.ReportID == nil {
		content, err := s.obj.GetFile(ctx, doc.ObjectKey())
		if err != nil {
			return nil, fmt.Errorf("fetch document bytes: %w", err)
		}

		raw, report, err := s.extractor.Extract(ctx, doc.FileName(), doc.MimeType, content)
		if err != nil {
			return nil, fmt.Errorf("layout extraction: %w", err)
		}

		rec := &models.Report{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			StorageKey: uuid.NewString(),
		}
		if err := s.obj.UploadFile(ctx, rec.ObjectKey(), raw, "application/json"); err != nil {
			return nil, fmt.Errorf("store report artifact: %w", err)
		}
		if err := s.db.LinkReport(ctx, doc.ID, rec); err != nil {
			return nil, fmt.Errorf("link report: %w", err)
		}
		doc.ReportID = &rec.ID
		return report, nil
	}

	rec, err := s.db.GetReportByID(ctx, *doc.ReportID)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("document %s references missing report %s", doc.ID, *doc.ReportID)
	}
	raw, err := s.obj.GetFile(ctx, rec.ObjectKey())
	if err != nil {
		return nil, fmt.Errorf("report artifact %s unreadable: %w", rec.ObjectKey(), err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("report artifact %s is empty", rec.ObjectKey())
	}
	var report models.ExtractionReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("report artifact %s corrupt: %w", rec.ObjectKey(), err)
	}
	return &report, nil
}

// Delete cascades: vector points (skipped when none exist), report artifact
// and row, document blob, document row. Mutation and deletion are mutually
// exclusive per document, so a PROCESSING document cannot be deleted.
func (s *DocumentService) Delete(ctx context.Context, ownerID, docID string) error {
	doc, err := s.db.GetDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return ErrNotFound
	}
	if doc.OwnerID != ownerID {
		return ErrForbidden
	}
	if doc.Status == models.StatusProcessing {
		return fmt.Errorf("%w: document is being processed", ErrConflict)
	}

	if doc.ReportID != nil {
		n, err := s.vectors.CountByDocument(ctx, ownerID, docID)
		if err != nil {
			return fmt.Errorf("count vector points: %w", err)
		}
		if n > 0 {
			if err := s.vectors.DeleteByDocument(ctx, ownerID, docID); err != nil {
				return fmt.Errorf("delete vector points: %w", err)
			}
		}

		rec, err := s.db.GetReportByID(ctx, *doc.ReportID)
		if err != nil {
			return fmt.Errorf("load report: %w", err)
		}
		if rec != nil {
			if err := s.obj.DeleteFile(ctx, rec.ObjectKey()); err != nil {
				return fmt.Errorf("delete report artifact: %w", err)
			}
		}
		if err := s.db.DeleteReportForDocument(ctx, docID); err != nil {
			return fmt.Errorf("delete report record: %w", err)
		}
	}

	if err := s.obj.DeleteFile(ctx, doc.ObjectKey()); err != nil {
		return fmt.Errorf("delete document bytes: %w", err)
	}
	if err := s.db.DeleteDocument(ctx, docID); err != nil {
		return fmt.Errorf("delete document record: %w", err)
	}
	return nil
}

// DocumentView is one listed document with a time-limited inline-view URL.
type DocumentView struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Status string `json:"status"`
	URL    string `json:"url"`
}

// DocumentPage is a paginated listing.
type DocumentPage struct {
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalItems int            `json:"total_items"`
	Documents  []DocumentView `json:"documents"`
}

// List returns one page of the owner's documents with presigned URLs.
func (s *DocumentService) List(ctx context.Context, ownerID string, page, pageSize int) (*DocumentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	docs, total, err := s.db.ListDocumentsByOwner(ctx, ownerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	out := &DocumentPage{Page: page, PageSize: pageSize, TotalItems: total, Documents: []DocumentView{}}
	for i := range docs {
		d := &docs[i]
		url, err := s.obj.PresignGet(ctx, d.ObjectKey(), "application/pdf", s.cfg.PresignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", d.ObjectKey(), err)
		}
		out.Documents = append(out.Documents, DocumentView{
			ID:     d.ID,
			Key:    d.FileName(),
			Status: string(d.Status),
			URL:    url,
		})
	}
	return out, nil
}

// pointID derives a stable identifier from document and chunk position, so a
// re-run upserts the same points instead of accumulating new ones.
func pointID(docID string, idx int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID+"#"+strconv.Itoa(idx))).String()
}
