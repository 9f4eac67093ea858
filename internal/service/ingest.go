package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docsearch/internal/model"
	"docsearch/internal/repository"
	"docsearch/internal/storage"
)

const (
	maxTitleLen  = 255
	maxAuthorLen = 255
	maxISBNLen   = 32
)

// UploadInput is one document submission.
type UploadInput struct {
	OwnerID int64
	Title   string
	Author  string
	ISBN    string

	// OriginalFilename is the client supplied name. Only its extension is
	// used, to pick the file type; it is stored for display.
	OriginalFilename string
	ContentType      string
	// Size is the declared size in bytes, or -1 when unknown.
	Size int64
	// File is nil when the submission carried no file.
	File io.Reader
	// FileErr is the transport error reported for the file part, if any.
	FileErr error
}

// FormValues echoes the submitted text fields back to the caller.
type FormValues struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// ValidationError lists every problem found with an upload.
type ValidationError struct {
	Messages []string
	Form     FormValues
}

func (e *ValidationError) Error() string {
	return "invalid upload: " + strings.Join(e.Messages, "; ")
}

// newGUID returns 16 random bytes, hex encoded.
var newGUID = func() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate guid: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

func (s *documentService) Ingest(ctx context.Context, in UploadInput) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "service.Ingest")
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.ISBN = strings.TrimSpace(in.ISBN)

	fileType, verr := s.validate(in)
	if verr != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, verr
	}
	span.SetAttributes(attribute.String("file_type", fileType.String()))

	data, err := io.ReadAll(io.LimitReader(in.File, s.opts.MaxUploadBytes+1))
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("read upload: %w", err))
	}
	if int64(len(data)) > s.opts.MaxUploadBytes {
		return nil, &ValidationError{
			Messages: []string{fmt.Sprintf("File is larger than %d bytes.", s.opts.MaxUploadBytes)},
			Form:     formOf(in),
		}
	}

	guid, err := newGUID()
	if err != nil {
		return nil, s.fail(span, err)
	}
	key := objectKey(guid, fileType)
	span.SetAttributes(attribute.String("guid", guid))

	info, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": displayName(in.OriginalFilename),
		},
	})
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("upload to storage: %w", err))
	}

	text := model.StorableText(s.extractor.Extract(ctx, data, fileType))

	doc := &model.Document{
		GUID:             guid,
		Title:            in.Title,
		Author:           in.Author,
		ISBN:             in.ISBN,
		FilePath:         info.Location,
		FileType:         fileType,
		SizeKB:           model.SizeInKB(int64(len(data))),
		OriginalFilename: displayName(in.OriginalFilename),
		UploadedBy:       in.OwnerID,
	}
	err = s.repo.WithTx(ctx, func(tx repository.DocumentRepository) error {
		id, err := tx.InsertDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		if text == "" {
			return nil
		}
		if err := tx.InsertContent(ctx, id, text); err != nil {
			return fmt.Errorf("insert content: %w", err)
		}
		return nil
	})
	if err != nil {
		// The request may already be cancelled; the orphan file must still go.
		if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			return nil, s.fail(span, fmt.Errorf("db save failed: %w; rollback delete failed: %w", err, delErr))
		}
		return nil, s.fail(span, fmt.Errorf("db save failed: %w", err))
	}

	s.opts.Metrics.Ingested(fileType.String(), text != "")
	s.logger.InfoContext(ctx, "document ingested",
		"document_id", doc.ID,
		"guid", guid,
		"file_type", fileType,
		"size_kb", doc.SizeKB,
		"text_length", len(text),
		"owner_id", in.OwnerID,
	)
	return doc, nil
}

func (s *documentService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// validate collects every problem with in rather than stopping at the first.
func (s *documentService) validate(in UploadInput) (model.FileType, *ValidationError) {
	var msgs []string

	switch {
	case in.Title == "":
		msgs = append(msgs, "Title is required.")
	case !storable(in.Title):
		msgs = append(msgs, "Title contains invalid characters.")
	case utf8.RuneCountInString(in.Title) > maxTitleLen:
		msgs = append(msgs, fmt.Sprintf("Title must be at most %d characters.", maxTitleLen))
	}
	switch {
	case !storable(in.Author):
		msgs = append(msgs, "Author contains invalid characters.")
	case utf8.RuneCountInString(in.Author) > maxAuthorLen:
		msgs = append(msgs, fmt.Sprintf("Author must be at most %d characters.", maxAuthorLen))
	}
	switch {
	case !storable(in.ISBN):
		msgs = append(msgs, "ISBN contains invalid characters.")
	case utf8.RuneCountInString(in.ISBN) > maxISBNLen:
		msgs = append(msgs, fmt.Sprintf("ISBN must be at most %d characters.", maxISBNLen))
	}
	if in.OwnerID <= 0 {
		msgs = append(msgs, "Uploader is unknown.")
	}

	var fileType model.FileType
	switch {
	case in.FileErr != nil:
		msgs = append(msgs, "The file could not be uploaded.")
	case in.File == nil:
		msgs = append(msgs, "A file is required.")
	default:
		if !storable(in.OriginalFilename) {
			msgs = append(msgs, "File name contains invalid characters.")
		}
		ft, ok := model.FileTypeFromFilename(in.OriginalFilename)
		if !ok {
			msgs = append(msgs, "File type is not allowed. Allowed types: "+allowedList()+".")
		}
		fileType = ft
		if in.Size > s.opts.MaxUploadBytes {
			msgs = append(msgs, fmt.Sprintf("File is larger than %d bytes.", s.opts.MaxUploadBytes))
		}
	}

	if len(msgs) > 0 {
		return "", &ValidationError{Messages: msgs, Form: formOf(in)}
	}
	return fileType, nil
}

// storable reports whether s fits a text column unchanged.
func storable(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

func formOf(in UploadInput) FormValues {
	return FormValues{Title: in.Title, Author: in.Author, ISBN: in.ISBN}
}

func allowedList() string {
	names := make([]string, len(model.AllowedFileTypes))
	for i, t := range model.AllowedFileTypes {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// displayName drops any directory part a client sent with the filename.
func displayName(name string) string {
	return path.Base(strings.ReplaceAll(name, `\`, "/"))
}
