package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	extractMocks "docsearch/internal/extract/mocks"
	"docsearch/internal/metrics"
	"docsearch/internal/model"
	"docsearch/internal/repository"
	repoMocks "docsearch/internal/repository/mocks"
	"docsearch/internal/storage"
	storeMocks "docsearch/internal/storage/mocks"
)

const testGUID = "0123456789abcdef0123456789abcdef"

type fixture struct {
	store   *storeMocks.MockStorage
	repo    *repoMocks.MockDocumentRepository
	extract *extractMocks.MockExtractor
	metrics *metrics.Ingest
	svc     DocumentService
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	m, err := metrics.NewIngest(prometheus.NewRegistry())
	require.NoError(t, err)

	f := &fixture{
		store:   storeMocks.NewMockStorage(t),
		repo:    new(repoMocks.MockDocumentRepository),
		extract: new(extractMocks.MockExtractor),
		metrics: m,
	}
	opts.Metrics = m
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewDocumentService(f.store, f.repo, f.extract, opts)

	orig := newGUID
	newGUID = func() (string, error) { return testGUID, nil }
	t.Cleanup(func() { newGUID = orig })
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.store.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.extract.AssertExpectations(t)
}

func validInput(name, body string) UploadInput {
	return UploadInput{
		OwnerID:          7,
		Title:            "  Go Notes  ",
		Author:           "Gopher",
		ISBN:             "978-0",
		OriginalFilename: name,
		ContentType:      "text/plain",
		Size:             int64(len(body)),
		File:             strings.NewReader(body),
	}
}

func TestDocumentService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("stores file, metadata and content", func(t *testing.T) {
		f := newFixture(t, Options{})

		f.store.On("Put", mock.Anything, testGUID+".txt", mock.Anything, storage.PutObjectOptions{
			Size:        11,
			ContentType: "text/plain",
			Metadata:    map[string]string{"original-filename": "notes.txt"},
		}).Return(storage.ObjectInfo{Key: testGUID + ".txt", Location: "/uploads/" + testGUID + ".txt", Size: 11}, nil)
		f.extract.On("Extract", mock.Anything, []byte("hello world"), model.FileTypeTXT).Return("hello world")
		f.repo.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("InsertDocument", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
			return d.GUID == testGUID &&
				d.Title == "Go Notes" &&
				d.FilePath == "/uploads/"+testGUID+".txt" &&
				d.FileType == model.FileTypeTXT &&
				d.SizeKB == 1 &&
				d.UploadedBy == 7
		})).Return(int64(10), nil).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Document).ID = 10
		})
		f.repo.On("InsertContent", mock.Anything, int64(10), "hello world").Return(nil)

		doc, err := f.svc.Ingest(ctx, validInput("notes.txt", "hello world"))

		require.NoError(t, err)
		assert.Equal(t, int64(10), doc.ID)
		assert.Equal(t, "notes.txt", doc.OriginalFilename)
		assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.DocumentsIngested.WithLabelValues("txt")))
		assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ContentStored.WithLabelValues("txt")))
		f.assertExpectations(t)
	})

	t.Run("failed extraction still stores the document", func(t *testing.T) {
		f := newFixture(t, Options{})

		f.store.On("Put", mock.Anything, testGUID+".pdf", mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Location: "/uploads/" + testGUID + ".pdf"}, nil)
		f.extract.On("Extract", mock.Anything, mock.Anything, model.FileTypePDF).Return("")
		f.repo.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("InsertDocument", mock.Anything, mock.Anything).Return(int64(11), nil)

		in := validInput(`C:\Users\me\REPORT.PDF`, "%PDF-broken")
		doc, err := f.svc.Ingest(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, model.FileTypePDF, doc.FileType)
		assert.Equal(t, "REPORT.PDF", doc.OriginalFilename)
		f.repo.AssertNotCalled(t, "InsertContent", mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.ContentStored.WithLabelValues("pdf")))
		f.assertExpectations(t)
	})

	t.Run("extracted text is cleaned before it is stored", func(t *testing.T) {
		f := newFixture(t, Options{})

		f.store.On("Put", mock.Anything, testGUID+".rtf", mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Location: "/uploads/" + testGUID + ".rtf"}, nil)
		f.extract.On("Extract", mock.Anything, mock.Anything, model.FileTypeRTF).Return("a\x00b caf\xe9")
		f.repo.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("InsertDocument", mock.Anything, mock.Anything).Return(int64(13), nil)
		f.repo.On("InsertContent", mock.Anything, int64(13), "ab caf\uFFFD").Return(nil)

		_, err := f.svc.Ingest(ctx, validInput("memo.rtf", `{\rtf1 a\'00b}`))

		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("text of only nul bytes stores no content", func(t *testing.T) {
		f := newFixture(t, Options{})

		f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		f.extract.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return("\x00\x00")
		f.repo.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("InsertDocument", mock.Anything, mock.Anything).Return(int64(14), nil)

		_, err := f.svc.Ingest(ctx, validInput("a.txt", "abc"))

		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "InsertContent", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := f.svc.Ingest(ctx, validInput("a.txt", "abc"))

		assert.ErrorContains(t, err, "upload to storage: storage fail")
		f.extract.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("database error removes the stored file", func(t *testing.T) {
		f := newFixture(t, Options{})
		dbErr := errors.New("db fail")

		f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key, Location: "/uploads/" + key}
			}, nil)
		f.extract.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return("text")
		f.repo.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("InsertDocument", mock.Anything, mock.Anything).Return(int64(12), nil)
		f.repo.On("InsertContent", mock.Anything, int64(12), "text").Return(dbErr)
		f.store.On("Delete", mock.Anything, testGUID+".txt").Return(nil)

		doc, err := f.svc.Ingest(ctx, validInput("a.txt", "abc"))

		assert.Nil(t, doc)
		assert.ErrorIs(t, err, dbErr)
		assert.ErrorContains(t, err, "db save failed: insert content: db fail")
		assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.DocumentsIngested.WithLabelValues("txt")))
		f.assertExpectations(t)
	})

	t.Run("database and cleanup errors are both reported", func(t *testing.T) {
		f := newFixture(t, Options{})

		f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		f.extract.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return("")
		f.repo.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("InsertDocument", mock.Anything, mock.Anything).Return(int64(0), errors.New("db fail"))
		f.store.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete fail"))

		_, err := f.svc.Ingest(ctx, validInput("a.txt", "abc"))

		assert.ErrorContains(t, err, "db fail")
		assert.ErrorContains(t, err, "rollback delete failed: delete fail")
		f.assertExpectations(t)
	})
}

func TestDocumentService_IngestValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		mutate   func(in *UploadInput)
		wantMsgs []string
	}{
		{
			name:     "missing title and disallowed extension are reported together",
			mutate:   func(in *UploadInput) { in.Title = "   "; in.OriginalFilename = "virus.exe" },
			wantMsgs: []string{"Title is required.", "File type is not allowed. Allowed types: txt, rtf, pdf, docx, epub, html."},
		},
		{
			name:     "title too long",
			mutate:   func(in *UploadInput) { in.Title = strings.Repeat("é", 256) },
			wantMsgs: []string{"Title must be at most 255 characters."},
		},
		{
			name:     "author and isbn too long",
			mutate:   func(in *UploadInput) { in.Author = strings.Repeat("a", 256); in.ISBN = strings.Repeat("9", 33) },
			wantMsgs: []string{"Author must be at most 255 characters.", "ISBN must be at most 32 characters."},
		},
		{
			name:     "fields that are not utf-8",
			mutate:   func(in *UploadInput) { in.Title = "caf\xe9"; in.Author = "a\x00b"; in.ISBN = "\xff" },
			wantMsgs: []string{"Title contains invalid characters.", "Author contains invalid characters.", "ISBN contains invalid characters."},
		},
		{
			name:     "file name that is not utf-8",
			mutate:   func(in *UploadInput) { in.OriginalFilename = "r\xe9sum\xe9.txt" },
			wantMsgs: []string{"File name contains invalid characters."},
		},
		{
			name:     "no file",
			mutate:   func(in *UploadInput) { in.File = nil },
			wantMsgs: []string{"A file is required."},
		},
		{
			name:     "transport error",
			mutate:   func(in *UploadInput) { in.FileErr = errors.New("unexpected EOF") },
			wantMsgs: []string{"The file could not be uploaded."},
		},
		{
			name:     "no extension",
			mutate:   func(in *UploadInput) { in.OriginalFilename = "README" },
			wantMsgs: []string{"File type is not allowed. Allowed types: txt, rtf, pdf, docx, epub, html."},
		},
		{
			name:     "declared size over limit",
			mutate:   func(in *UploadInput) { in.Size = 1 << 30 },
			wantMsgs: []string{"File is larger than 16 bytes."},
		},
		{
			name:     "unknown owner",
			mutate:   func(in *UploadInput) { in.OwnerID = 0 },
			wantMsgs: []string{"Uploader is unknown."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{MaxUploadBytes: 16})
			in := validInput("ok.txt", "short")
			tt.mutate(&in)

			doc, err := f.svc.Ingest(ctx, in)

			assert.Nil(t, doc)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsgs, verr.Messages)
			assert.Equal(t, strings.TrimSpace(in.Title), verr.Form.Title)
			f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.repo.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
		})
	}

	t.Run("actual size over limit", func(t *testing.T) {
		f := newFixture(t, Options{MaxUploadBytes: 4})
		in := validInput("big.txt", "more than four bytes")
		in.Size = -1

		_, err := f.svc.Ingest(ctx, in)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"File is larger than 4 bytes."}, verr.Messages)
		f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("blank query does not touch the store", func(t *testing.T) {
		f := newFixture(t, Options{})

		res, err := f.svc.Search(ctx, " \t\n", 10, 0)

		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
		assert.Equal(t, 0, res.Total)
		f.repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("query is trimmed and escaped", func(t *testing.T) {
		f := newFixture(t, Options{})
		items := []model.DocumentSummary{{ID: 2, Title: "Sale 100% off"}}
		f.repo.On("Search", mock.Anything, `%100\%%`, repository.PageQuery{Limit: repository.DefaultPageLimit}).
			Return(&repository.PageResult[model.DocumentSummary]{Items: items, Total: 1}, nil)

		res, err := f.svc.Search(ctx, "  100%  ", 0, -5)

		require.NoError(t, err)
		assert.Equal(t, items, res.Items)
		assert.Equal(t, 1, res.Total)
		f.assertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.repo.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := f.svc.Search(ctx, "rust", 10, 0)

		assert.ErrorContains(t, err, "search documents: db fail")
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()
	page := &repository.PageResult[model.DocumentSummary]{Items: []model.DocumentSummary{{ID: 1}, {ID: 2}}, Total: 2}

	tests := []struct {
		name       string
		scope      ListScope
		ownerID    int64
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name:  "all",
			scope: ScopeAll,
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("ListAll", ctx, repository.PageQuery{Limit: 10}).Return(page, nil)
			},
		},
		{
			name:    "mine with default limit",
			scope:   ScopeMine,
			ownerID: 3,
			offset:  -1,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("ListByOwner", ctx, int64(3), repository.PageQuery{Limit: repository.DefaultPageLimit}).Return(page, nil)
			},
		},
		{
			name:    "others with capped limit",
			scope:   ScopeOthers,
			ownerID: 3,
			limit:   500,
			offset:  20,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("ListNotByOwner", ctx, int64(3), repository.PageQuery{Limit: repository.MaxPageLimit, Offset: 20}).Return(page, nil)
			},
		},
		{
			name:       "mine without owner",
			scope:      ScopeMine,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrOwnerRequired,
		},
		{
			name:       "unknown scope",
			scope:      ListScope("everyone"),
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrInvalidScope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			tt.setupMocks(f.repo)

			res, err := f.svc.List(ctx, tt.scope, tt.ownerID, tt.limit, tt.offset)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Len(t, res.Items, 2)
				assert.Equal(t, 2, res.Total)
			}
			f.repo.AssertExpectations(t)
		})
	}
}

func TestParseListScope(t *testing.T) {
	for in, want := range map[string]ListScope{"": ScopeAll, "all": ScopeAll, "mine": ScopeMine, "others": ScopeOthers} {
		got, err := ParseListScope(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseListScope("MINE")
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "found",
			id:   1,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Document{ID: 1}, nil)
			},
		},
		{
			name:       "invalid id",
			id:         0,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   404,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(404)).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			tt.setupMocks(f.repo)

			doc, err := f.svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, doc.ID)
			}
			f.repo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_GetContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	f.repo.On("FindContentByID", ctx, int64(1)).Return("Once upon a time", nil)
	f.repo.On("FindContentByID", ctx, int64(2)).Return("", repository.ErrNotFound)
	f.repo.On("FindContentByID", ctx, int64(3)).Return("", errors.New("db fail"))

	c, err := f.svc.GetContent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &model.Content{DocumentID: 1, Text: "Once upon a time"}, c)

	_, err = f.svc.GetContent(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.GetContent(ctx, 3)
	assert.ErrorContains(t, err, "find content: db fail")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDocumentService_FileURL(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	f.repo.On("FindByID", ctx, int64(1)).Return(&model.Document{ID: 1, GUID: testGUID, FileType: model.FileTypeEPUB}, nil)
	f.store.On("PresignGet", ctx, testGUID+".epub", defaultPresign()).Return("https://minio/signed", nil)

	u, err := f.svc.FileURL(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "https://minio/signed", u)
	f.assertExpectations(t)
}

func defaultPresign() any {
	o := Options{}
	o.defaults()
	return o.PresignExpiry
}

func TestDocumentService_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("zero fills missing types", func(t *testing.T) {
		f := newFixture(t, Options{})
		mine := &repository.PageResult[model.DocumentSummary]{Items: []model.DocumentSummary{{ID: 3, UploadedBy: 7}}, Total: 3}
		others := &repository.PageResult[model.DocumentSummary]{Items: []model.DocumentSummary{{ID: 4, UploadedBy: 8}}, Total: 1}

		f.repo.On("CountByOwner", ctx, int64(7)).Return(3, nil)
		f.repo.On("CountByOwnerGroupedByType", ctx, int64(7)).Return(map[model.FileType]int{model.FileTypePDF: 2, model.FileTypeTXT: 1}, nil)
		f.repo.On("ListByOwner", ctx, int64(7), repository.PageQuery{Limit: 5}).Return(mine, nil)
		f.repo.On("ListNotByOwner", ctx, int64(7), repository.PageQuery{Limit: 5}).Return(others, nil)

		d, err := f.svc.Dashboard(ctx, 7, 0)

		require.NoError(t, err)
		assert.Equal(t, 3, d.DocumentCount)
		assert.Len(t, d.CountsByType, len(model.AllowedFileTypes))
		assert.Equal(t, 2, d.CountsByType[model.FileTypePDF])
		assert.Equal(t, 0, d.CountsByType[model.FileTypeEPUB])
		assert.Equal(t, mine.Items, d.LatestMine)
		assert.Equal(t, others.Items, d.LatestOthers)
		f.assertExpectations(t)
	})

	t.Run("owner required", func(t *testing.T) {
		f := newFixture(t, Options{})
		_, err := f.svc.Dashboard(ctx, 0, 5)
		assert.ErrorIs(t, err, ErrOwnerRequired)
	})

	t.Run("count error", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.repo.On("CountByOwner", ctx, int64(7)).Return(0, errors.New("db fail"))
		_, err := f.svc.Dashboard(ctx, 7, 5)
		assert.ErrorContains(t, err, "count documents: db fail")
	})
}

func TestDocumentService_Reindex(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: 1, GUID: testGUID, FileType: model.FileTypeHTML}

	t.Run("replaces content and touches the document", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.repo.On("FindByID", mock.Anything, int64(1)).Return(doc, nil)
		f.store.On("Get", mock.Anything, testGUID+".html").
			Return(storeMocks.Body("<p>fresh</p>"), storage.ObjectInfo{}, nil)
		f.extract.On("Extract", mock.Anything, []byte("<p>fresh</p>"), model.FileTypeHTML).Return("fresh")
		f.repo.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("ReplaceContent", mock.Anything, int64(1), "fresh").Return(nil)
		f.repo.On("TouchUpdated", mock.Anything, int64(1), int64(9)).Return(nil)

		res, err := f.svc.Reindex(ctx, 1, 9)

		require.NoError(t, err)
		assert.Equal(t, &ReindexResult{DocumentID: 1, TextLength: 5}, res)
		f.assertExpectations(t)
	})

	t.Run("re-extracted text is cleaned", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.repo.On("FindByID", mock.Anything, int64(1)).Return(doc, nil)
		f.store.On("Get", mock.Anything, testGUID+".html").
			Return(storeMocks.Body("<p>x</p>"), storage.ObjectInfo{}, nil)
		f.extract.On("Extract", mock.Anything, mock.Anything, model.FileTypeHTML).Return("x\x00y")
		f.repo.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("ReplaceContent", mock.Anything, int64(1), "xy").Return(nil)
		f.repo.On("TouchUpdated", mock.Anything, int64(1), int64(9)).Return(nil)

		res, err := f.svc.Reindex(ctx, 1, 9)

		require.NoError(t, err)
		assert.Equal(t, 2, res.TextLength)
		f.assertExpectations(t)
	})

	t.Run("missing stored file", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.repo.On("FindByID", mock.Anything, int64(1)).Return(doc, nil)
		f.store.On("Get", mock.Anything, testGUID+".html").Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

		_, err := f.svc.Reindex(ctx, 1, 9)

		assert.ErrorIs(t, err, ErrNotFound)
		f.repo.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})
}

func TestNewGUID(t *testing.T) {
	a, err := newGUID()
	require.NoError(t, err)
	b, err := newGUID()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Regexp(t, `^[0-9a-f]{32}$`, a)
	assert.NotEqual(t, a, b)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Messages: []string{"Title is required.", "A file is required."}}
	assert.Equal(t, "invalid upload: Title is required.; A file is required.", err.Error())
}
