package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsearch/internal/model"
	"docsearch/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Ingest(ctx context.Context, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Search(ctx context.Context, query string, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, scope service.ListScope, ownerID int64, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, scope, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) GetContent(ctx context.Context, id int64) (*model.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

func (m *MockDocumentService) FileURL(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) Dashboard(ctx context.Context, ownerID int64, limit int) (*service.Dashboard, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *MockDocumentService) Reindex(ctx context.Context, id int64, updaterID int64) (*service.ReindexResult, error) {
	args := m.Called(ctx, id, updaterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReindexResult), args.Error(1)
}
