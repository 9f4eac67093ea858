package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docsearch/internal/model"
	"docsearch/internal/repository"
)

// dbtx is the subset of *sql.DB and *sql.Tx the queries need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db   dbtx
	conn *sql.DB // nil when bound to a transaction
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db, conn: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, guid, title, author, isbn, file_path, file_type, size_kb,
		original_filename, uploaded_at, uploaded_by, updated_at, updated_by`

const summaryColumns = `d.id, d.guid, d.title, d.author, d.file_path, d.file_type,
		d.original_filename, d.uploaded_at, d.uploaded_by`

// InsertDocument inserts a document row. The generated id and timestamps
// are written back into doc.
func (r *DocumentPostgres) InsertDocument(ctx context.Context, doc *model.Document) (int64, error) {
	const q = `
		INSERT INTO documents (guid, title, author, isbn, file_path, file_type, size_kb,
			original_filename, uploaded_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, uploaded_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.GUID,
		doc.Title,
		doc.Author,
		doc.ISBN,
		doc.FilePath,
		string(doc.FileType),
		doc.SizeKB,
		doc.OriginalFilename,
		doc.UploadedBy,
	)
	if err := row.Scan(&doc.ID, &doc.UploadedAt, &doc.UpdatedAt); err != nil {
		return 0, err
	}
	doc.UpdatedBy = doc.UploadedBy
	return doc.ID, nil
}

func (r *DocumentPostgres) InsertContent(ctx context.Context, documentID int64, text string) error {
	text = model.StorableText(text)
	if text == "" {
		return nil
	}
	const q = `INSERT INTO content (document_id, text_content) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, q, documentID, text)
	return err
}

func (r *DocumentPostgres) ReplaceContent(ctx context.Context, documentID int64, text string) error {
	text = model.StorableText(text)
	if text == "" {
		_, err := r.db.ExecContext(ctx, `DELETE FROM content WHERE document_id = $1`, documentID)
		return err
	}
	const q = `
		INSERT INTO content (document_id, text_content) VALUES ($1, $2)
		ON CONFLICT (document_id) DO UPDATE SET text_content = EXCLUDED.text_content
	`
	_, err := r.db.ExecContext(ctx, q, documentID, text)
	return err
}

// WithTx runs fn inside a transaction. Nested calls reuse the outer one.
func (r *DocumentPostgres) WithTx(ctx context.Context, fn func(repository.DocumentRepository) error) (err error) {
	if r.conn == nil {
		return fn(r)
	}
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit transaction: %w", cErr)
		}
	}()
	return fn(&DocumentPostgres{db: tx})
}

func (r *DocumentPostgres) ListAll(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.DocumentSummary], error) {
	return r.listSummaries(ctx, "TRUE", pq)
}

func (r *DocumentPostgres) ListByOwner(ctx context.Context, ownerID int64, pq repository.PageQuery) (*repository.PageResult[model.DocumentSummary], error) {
	return r.listSummaries(ctx, "d.uploaded_by = $1", pq, ownerID)
}

func (r *DocumentPostgres) ListNotByOwner(ctx context.Context, ownerID int64, pq repository.PageQuery) (*repository.PageResult[model.DocumentSummary], error) {
	return r.listSummaries(ctx, "d.uploaded_by <> $1", pq, ownerID)
}

// Search applies pattern with ILIKE to title, author and content text.
// EXISTS keeps each document to a single row however its content matches.
func (r *DocumentPostgres) Search(ctx context.Context, pattern string, pq repository.PageQuery) (*repository.PageResult[model.DocumentSummary], error) {
	const where = `(d.title ILIKE $1 ESCAPE '\' OR d.author ILIKE $1 ESCAPE '\'
		OR EXISTS (SELECT 1 FROM content c WHERE c.document_id = d.id AND c.text_content ILIKE $1 ESCAPE '\'))`
	return r.listSummaries(ctx, where, pq, pattern)
}

// listSummaries counts the rows matching where and fetches one page of
// them. where may reference args as $1..$n; LIMIT and OFFSET follow.
func (r *DocumentPostgres) listSummaries(ctx context.Context, where string, pq repository.PageQuery, args ...any) (*repository.PageResult[model.DocumentSummary], error) {
	pq = pq.Normalize()

	qCount := `SELECT COUNT(*) FROM documents d WHERE ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(`
		SELECT %s
		FROM documents d
		WHERE %s
		ORDER BY d.uploaded_at DESC, d.id DESC
		LIMIT $%d OFFSET $%d
	`, summaryColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentSummary, 0)
	for rows.Next() {
		var (
			s  model.DocumentSummary
			ft string
		)
		if err := rows.Scan(
			&s.ID,
			&s.GUID,
			&s.Title,
			&s.Author,
			&s.FilePath,
			&ft,
			&s.OriginalFilename,
			&s.UploadedAt,
			&s.UploadedBy,
		); err != nil {
			return nil, err
		}
		s.FileType = model.FileType(ft)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.DocumentSummary]{
		Items: items,
		Total: total,
	}, nil
}

func (r *DocumentPostgres) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE uploaded_by = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountByOwnerGroupedByType only has keys for types the owner has uploaded.
func (r *DocumentPostgres) CountByOwnerGroupedByType(ctx context.Context, ownerID int64) (map[model.FileType]int, error) {
	const q = `
		SELECT file_type, COUNT(*)
		FROM documents
		WHERE uploaded_by = $1
		GROUP BY file_type
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.FileType]int)
	for rows.Next() {
		var (
			ft string
			n  int
		)
		if err := rows.Scan(&ft, &n); err != nil {
			return nil, err
		}
		counts[model.FileType(ft)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	var (
		d  model.Document
		ft string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID,
		&d.GUID,
		&d.Title,
		&d.Author,
		&d.ISBN,
		&d.FilePath,
		&ft,
		&d.SizeKB,
		&d.OriginalFilename,
		&d.UploadedAt,
		&d.UploadedBy,
		&d.UpdatedAt,
		&d.UpdatedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.FileType = model.FileType(ft)
	return &d, nil
}

func (r *DocumentPostgres) FindContentByID(ctx context.Context, documentID int64) (string, error) {
	const q = `SELECT text_content FROM content WHERE document_id = $1`
	var text string
	err := r.db.QueryRowContext(ctx, q, documentID).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (r *DocumentPostgres) TouchUpdated(ctx context.Context, id int64, updaterID int64) error {
	const q = `UPDATE documents SET updated_at = now(), updated_by = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, updaterID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
