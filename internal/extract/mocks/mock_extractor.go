package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsearch/internal/model"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, data []byte, fileType model.FileType) string {
	args := m.Called(ctx, data, fileType)
	return args.String(0)
}
