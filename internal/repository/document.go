package repository

import (
	"context"

	"docsearch/internal/model"
)

// DocumentRepository defines data access for documents and their extracted
// content using SQL queries only. No business logic here; strictly
// persistence operations. Multi-row reads are ordered newest first
// (uploaded_at DESC, id DESC).
type DocumentRepository interface {
	// InsertDocument stores a new document and returns its numeric id.
	// uploaded_at and updated_at are set by the database.
	InsertDocument(ctx context.Context, doc *model.Document) (int64, error)

	// InsertContent stores the extracted text of a document.
	// Empty text is not stored.
	InsertContent(ctx context.Context, documentID int64, text string) error

	// ReplaceContent swaps the stored text of a document. Empty text removes
	// the content row.
	ReplaceContent(ctx context.Context, documentID int64, text string) error

	// WithTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(DocumentRepository) error) error

	ListAll(ctx context.Context, pq PageQuery) (*PageResult[model.DocumentSummary], error)
	ListByOwner(ctx context.Context, ownerID int64, pq PageQuery) (*PageResult[model.DocumentSummary], error)
	ListNotByOwner(ctx context.Context, ownerID int64, pq PageQuery) (*PageResult[model.DocumentSummary], error)

	CountByOwner(ctx context.Context, ownerID int64) (int, error)
	CountByOwnerGroupedByType(ctx context.Context, ownerID int64) (map[model.FileType]int, error)

	// FindByID returns ErrNotFound when no document has the id.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// FindContentByID returns ErrNotFound when the document has no stored text.
	FindContentByID(ctx context.Context, documentID int64) (string, error)

	// Search matches the pattern case-insensitively against title, author
	// and content text. pattern is a ready LIKE pattern (see LikeContains).
	Search(ctx context.Context, pattern string, pq PageQuery) (*PageResult[model.DocumentSummary], error)

	// TouchUpdated records that updaterID modified the document now.
	TouchUpdated(ctx context.Context, id int64, updaterID int64) error
}
