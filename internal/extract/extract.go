// Package extract turns uploaded documents into plain text.
//
// Each supported file type has one TextExtractor registered in a Registry.
// Registry.Extract never fails: a malformed document, an unknown type or a
// panicking parser all degrade to empty text, which is logged and counted.
// Callers store the document either way; it is just not full-text searchable.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"docsearch/internal/metrics"
	"docsearch/internal/model"
)

// TextExtractor converts the raw bytes of one document format to plain text.
// Implementations must not retain or modify data.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// TextExtractorFunc adapts a function to TextExtractor.
type TextExtractorFunc func(ctx context.Context, data []byte) (string, error)

func (f TextExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// Config configures a Registry.
type Config struct {
	// MaxBytes is the largest input handed to a parser (default: 50 MB).
	// It also bounds the decompressed size read from docx and epub archives.
	MaxBytes int64

	Logger  *slog.Logger
	Metrics *metrics.Ingest
}

func (c *Config) defaults() {
	if c.MaxBytes <= 0 {
		c.MaxBytes = 50 << 20
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Registry dispatches extraction by file type.
type Registry struct {
	cfg      Config
	logger   *slog.Logger
	handlers map[model.FileType]TextExtractor
}

// New returns a Registry with an extractor for every allowed file type.
func New(ctx context.Context, cfg Config) (*Registry, error) {
	cfg.defaults()

	pdf, err := newPDFExtractor(ctx)
	if err != nil {
		return nil, fmt.Errorf("init pdf extractor: %w", err)
	}
	stripper := newHTMLStripper()

	r := &Registry{
		cfg:      cfg,
		logger:   cfg.Logger.With("component", "extract"),
		handlers: make(map[model.FileType]TextExtractor, len(model.AllowedFileTypes)),
	}
	r.Register(model.FileTypeTXT, TextExtractorFunc(extractPlainText))
	r.Register(model.FileTypeHTML, stripper)
	r.Register(model.FileTypePDF, pdf)
	r.Register(model.FileTypeDOCX, &docxExtractor{maxBytes: cfg.MaxBytes})
	r.Register(model.FileTypeRTF, TextExtractorFunc(extractRTF))
	r.Register(model.FileTypeEPUB, &epubExtractor{html: stripper, maxBytes: cfg.MaxBytes})
	return r, nil
}

// Register installs (or replaces) the extractor for ft.
func (r *Registry) Register(ft model.FileType, e TextExtractor) {
	r.handlers[ft] = e
}

// Supports reports whether an extractor is registered for ft.
func (r *Registry) Supports(ft model.FileType) bool {
	_, ok := r.handlers[ft]
	return ok
}

// Extract returns the plain text of data interpreted as ft, or "" when
// nothing could be extracted. The text is valid UTF-8 without NUL bytes.
func (r *Registry) Extract(ctx context.Context, data []byte, ft model.FileType) string {
	ctx, span := otel.Tracer("docsearch/extract").Start(ctx, "extract.Extract")
	defer span.End()
	span.SetAttributes(
		attribute.String("file_type", ft.String()),
		attribute.Int("size_bytes", len(data)),
	)

	h, ok := r.handlers[ft]
	if !ok {
		r.logger.DebugContext(ctx, "no extractor for file type", "file_type", ft)
		return ""
	}
	if int64(len(data)) > r.cfg.MaxBytes {
		r.fail(ctx, ft, fmt.Errorf("input of %d bytes exceeds limit of %d", len(data), r.cfg.MaxBytes))
		span.SetStatus(codes.Error, "input too large")
		return ""
	}

	start := time.Now()
	text, err := run(ctx, h, data)
	r.cfg.Metrics.ObserveExtraction(ft.String(), time.Since(start).Seconds())
	if err != nil {
		r.fail(ctx, ft, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return ""
	}
	text = model.StorableText(text)
	span.SetAttributes(attribute.Int("text_length", len(text)))
	return text
}

func (r *Registry) fail(ctx context.Context, ft model.FileType, err error) {
	r.logger.WarnContext(ctx, "text extraction failed", "file_type", ft, "error", err)
	r.cfg.Metrics.ExtractionFailed(ft.String())
}

// run invokes h and converts a parser panic into an error.
func run(ctx context.Context, h TextExtractor, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("extractor panic: %v", rec)
		}
	}()
	return h.Extract(ctx, data)
}
