package service

import (
	"context"
	"fmt"

	"docsearch/internal/model"
	"docsearch/internal/repository"
)

const defaultDashboardLimit = 5

// Dashboard is the per-owner overview.
type Dashboard struct {
	OwnerID       int64                   `json:"owner_id"`
	DocumentCount int                     `json:"document_count"`
	CountsByType  map[model.FileType]int  `json:"counts_by_type"`
	LatestMine    []model.DocumentSummary `json:"latest_mine"`
	LatestOthers  []model.DocumentSummary `json:"latest_others"`
}

// Dashboard reports every allowed file type in CountsByType, zero
// included. limit caps both latest lists.
func (s *documentService) Dashboard(ctx context.Context, ownerID int64, limit int) (*Dashboard, error) {
	if ownerID <= 0 {
		return nil, ErrOwnerRequired
	}
	if limit <= 0 {
		limit = defaultDashboardLimit
	}
	pq := repository.PageQuery{Limit: limit}.Normalize()

	count, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	byType, err := s.repo.CountByOwnerGroupedByType(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count documents by type: %w", err)
	}
	mine, err := s.repo.ListByOwner(ctx, ownerID, pq)
	if err != nil {
		return nil, fmt.Errorf("list own documents: %w", err)
	}
	others, err := s.repo.ListNotByOwner(ctx, ownerID, pq)
	if err != nil {
		return nil, fmt.Errorf("list other documents: %w", err)
	}

	counts := make(map[model.FileType]int, len(model.AllowedFileTypes))
	for _, ft := range model.AllowedFileTypes {
		counts[ft] = byType[ft]
	}
	return &Dashboard{
		OwnerID:       ownerID,
		DocumentCount: count,
		CountsByType:  counts,
		LatestMine:    mine.Items,
		LatestOthers:  others.Items,
	}, nil
}
