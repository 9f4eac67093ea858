package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"docsearch/internal/model"
	"docsearch/internal/repository"
	"docsearch/internal/storage"
)

// ReindexResult reports the outcome of re-extracting one document.
type ReindexResult struct {
	DocumentID int64 `json:"document_id"`
	TextLength int   `json:"text_length"`
}

func (s *documentService) Reindex(ctx context.Context, id int64, updaterID int64) (*ReindexResult, error) {
	ctx, span := tracer.Start(ctx, "service.Reindex")
	defer span.End()

	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rc, _, err := s.store.Get(ctx, storageKey(doc))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, s.fail(span, fmt.Errorf("stored file for document %d: %w", id, ErrNotFound))
	}
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("open stored file: %w", err))
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.opts.MaxUploadBytes+1))
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("read stored file: %w", err))
	}
	if int64(len(data)) > s.opts.MaxUploadBytes {
		return nil, s.fail(span, fmt.Errorf("stored file exceeds %d bytes", s.opts.MaxUploadBytes))
	}

	text := model.StorableText(s.extractor.Extract(ctx, data, doc.FileType))
	err = s.repo.WithTx(ctx, func(tx repository.DocumentRepository) error {
		if err := tx.ReplaceContent(ctx, doc.ID, text); err != nil {
			return fmt.Errorf("replace content: %w", err)
		}
		if err := tx.TouchUpdated(ctx, doc.ID, updaterID); err != nil {
			return fmt.Errorf("touch document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, err)
	}

	s.logger.InfoContext(ctx, "document reindexed", "document_id", doc.ID, "text_length", len(text))
	return &ReindexResult{DocumentID: doc.ID, TextLength: len(text)}, nil
}
