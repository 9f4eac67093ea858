package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"docsearch/internal/model"
	"docsearch/internal/repository"
)

// Search matches the trimmed query as a literal, case-insensitive substring
// of title, author or extracted text.
func (s *documentService) Search(ctx context.Context, query string, limit, offset int) (*DocumentListResult, error) {
	ctx, span := tracer.Start(ctx, "service.Search")
	defer span.End()

	q := strings.TrimSpace(query)
	if q == "" {
		return &DocumentListResult{Items: []model.DocumentSummary{}}, nil
	}
	span.SetAttributes(attribute.Int("query_length", len(q)))

	pq := repository.PageQuery{Limit: limit, Offset: offset}.Normalize()
	res, err := s.repo.Search(ctx, repository.LikeContains(q), pq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, fmt.Errorf("search documents: %w", err)
	}
	span.SetAttributes(attribute.Int("total", res.Total))
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}
