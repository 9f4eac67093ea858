package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsearch/internal/model"
	"docsearch/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) InsertDocument(ctx context.Context, doc *model.Document) (int64, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) InsertContent(ctx context.Context, documentID int64, text string) error {
	args := m.Called(ctx, documentID, text)
	return args.Error(0)
}

func (m *MockDocumentRepository) ReplaceContent(ctx context.Context, documentID int64, text string) error {
	args := m.Called(ctx, documentID, text)
	return args.Error(0)
}

// WithTx passes the mock itself to fn, so expectations set for the
// transactional calls are made on the same mock. The error registered for
// WithTx (if any) is returned in place of fn's when non-nil.
func (m *MockDocumentRepository) WithTx(ctx context.Context, fn func(repository.DocumentRepository) error) error {
	args := m.Called(ctx, fn)
	if err := fn(m); err != nil {
		return err
	}
	return args.Error(0)
}

func (m *MockDocumentRepository) ListAll(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.DocumentSummary], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.DocumentSummary]), args.Error(1)
}

func (m *MockDocumentRepository) ListByOwner(ctx context.Context, ownerID int64, pq repository.PageQuery) (*repository.PageResult[model.DocumentSummary], error) {
	args := m.Called(ctx, ownerID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.DocumentSummary]), args.Error(1)
}

func (m *MockDocumentRepository) ListNotByOwner(ctx context.Context, ownerID int64, pq repository.PageQuery) (*repository.PageResult[model.DocumentSummary], error) {
	args := m.Called(ctx, ownerID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.DocumentSummary]), args.Error(1)
}

func (m *MockDocumentRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) CountByOwnerGroupedByType(ctx context.Context, ownerID int64) (map[model.FileType]int, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.FileType]int), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindContentByID(ctx context.Context, documentID int64) (string, error) {
	args := m.Called(ctx, documentID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) Search(ctx context.Context, pattern string, pq repository.PageQuery) (*repository.PageResult[model.DocumentSummary], error) {
	args := m.Called(ctx, pattern, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.DocumentSummary]), args.Error(1)
}

func (m *MockDocumentRepository) TouchUpdated(ctx context.Context, id int64, updaterID int64) error {
	args := m.Called(ctx, id, updaterID)
	return args.Error(0)
}
