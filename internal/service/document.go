// Package service implements the document use cases: ingestion, search,
// reads and the per-owner dashboard.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"docsearch/internal/metrics"
	"docsearch/internal/model"
	"docsearch/internal/repository"
	"docsearch/internal/storage"
)

var (
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("document not found")
	ErrOwnerRequired = errors.New("owner id is required")
	ErrInvalidScope  = errors.New("scope must be one of all, mine, others")
)

var tracer = otel.Tracer("docsearch/service")

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.DocumentSummary `json:"data"`
	Total int                     `json:"total"`
}

// ListScope selects whose documents List returns relative to an owner.
type ListScope string

const (
	ScopeAll    ListScope = "all"
	ScopeMine   ListScope = "mine"
	ScopeOthers ListScope = "others"
)

// ParseListScope accepts "", "all", "mine" and "others". Empty means all.
func ParseListScope(s string) (ListScope, error) {
	switch ListScope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeMine, ScopeOthers:
		return ListScope(s), nil
	}
	return "", ErrInvalidScope
}

// Extractor produces the plain text of a document. It reports failures by
// returning "".
type Extractor interface {
	Extract(ctx context.Context, data []byte, fileType model.FileType) string
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Ingest validates an upload, stores the file, extracts its text and
	// records metadata and content. Invalid input yields a *ValidationError
	// and writes nothing.
	Ingest(ctx context.Context, in UploadInput) (*model.Document, error)

	// Search returns documents whose title, author or content contain query.
	// A blank query returns an empty result.
	Search(ctx context.Context, query string, limit, offset int) (*DocumentListResult, error)

	// List returns documents in scope relative to ownerID, newest first.
	List(ctx context.Context, scope ListScope, ownerID int64, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// GetContent returns the extracted text of a document. ErrNotFound
	// covers both an unknown document and one without text.
	GetContent(ctx context.Context, id int64) (*model.Content, error)

	// FileURL returns a URL the original file can be downloaded from.
	FileURL(ctx context.Context, id int64) (string, error)

	// Dashboard summarises the uploads of ownerID.
	Dashboard(ctx context.Context, ownerID int64, limit int) (*Dashboard, error)

	// Reindex extracts the stored file again and replaces the content.
	Reindex(ctx context.Context, id int64, updaterID int64) (*ReindexResult, error)
}

// Options tunes a DocumentService. Zero values select defaults.
type Options struct {
	MaxUploadBytes int64
	PresignExpiry  time.Duration
	Logger         *slog.Logger
	Metrics        *metrics.Ingest
}

func (o *Options) defaults() {
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = 50 << 20
	}
	if o.PresignExpiry <= 0 {
		o.PresignExpiry = 15 * time.Minute
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store     storage.Storage
	repo      repository.DocumentRepository
	extractor Extractor
	opts      Options
	logger    *slog.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, extractor Extractor, opts Options) DocumentService {
	opts.defaults()
	return &documentService{
		store:     store,
		repo:      repo,
		extractor: extractor,
		opts:      opts,
		logger:    opts.Logger.With("component", "service"),
	}
}

func (s *documentService) List(ctx context.Context, scope ListScope, ownerID int64, limit, offset int) (*DocumentListResult, error) {
	pq := repository.PageQuery{Limit: limit, Offset: offset}.Normalize()

	var (
		res *repository.PageResult[model.DocumentSummary]
		err error
	)
	switch scope {
	case ScopeAll, "":
		res, err = s.repo.ListAll(ctx, pq)
	case ScopeMine, ScopeOthers:
		if ownerID <= 0 {
			return nil, ErrOwnerRequired
		}
		if scope == ScopeMine {
			res, err = s.repo.ListByOwner(ctx, ownerID, pq)
		} else {
			res, err = s.repo.ListNotByOwner(ctx, ownerID, pq)
		}
	default:
		return nil, ErrInvalidScope
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

func (s *documentService) GetContent(ctx context.Context, id int64) (*model.Content, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	text, err := s.repo.FindContentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find content: %w", err)
	}
	return &model.Content{DocumentID: id, Text: text}, nil
}

func (s *documentService) FileURL(ctx context.Context, id int64) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, storageKey(doc), s.opts.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign file: %w", err)
	}
	return u, nil
}

// storageKey is the file store key of a document's original.
func storageKey(doc *model.Document) string {
	return objectKey(doc.GUID, doc.FileType)
}

func objectKey(guid string, ft model.FileType) string {
	return guid + "." + string(ft)
}
