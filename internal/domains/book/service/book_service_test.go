package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"inkdrop-backend/internal/domains/asset"
	"inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/domains/book/repository"
	categoryRepo "inkdrop-backend/internal/domains/category/repository"
	categoryService "inkdrop-backend/internal/domains/category/service"
	infraCache "inkdrop-backend/internal/infrastructure/cache"
	"inkdrop-backend/internal/infrastructure/queue/queuetest"
	"inkdrop-backend/internal/infrastructure/storage"
	"inkdrop-backend/internal/infrastructure/storage/storagetest"
	types "inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/errs"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	primaryBase   = "https://primary.test/inkdrop"
	secondaryBase = "https://secondary.test/backup"
)

var uploader = &types.Actor{UserID: uuid.MustParse("7d1f0c4e-0000-4000-8000-000000000001"), Role: types.RoleAdmin}

// docsDown fails every document upload and accepts covers.
type docsDown struct {
	*storagetest.Backend
}

func (b docsDown) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if strings.HasPrefix(key, string(storage.FolderDocuments)+"/") {
		return "", errors.New("bucket unreachable")
	}
	return b.Backend.Put(ctx, key, data, contentType)
}

// repoRemover stands in for the cleanup coordinator.
type repoRemover struct {
	repo    *repository.MemoryRepository
	removed []uuid.UUID
	err     error
}

func (r *repoRemover) Remove(ctx context.Context, b *model.Book) error {
	if r.err != nil {
		return r.err
	}
	r.removed = append(r.removed, b.ID)
	return r.repo.Delete(ctx, b.ID)
}

type fixture struct {
	svc        *BookService
	repo       *repository.MemoryRepository
	categories categoryService.ServiceInterface
	primary    *storagetest.Backend
	secondary  *storagetest.Backend
	tasks      *queuetest.Recorder
	remover    *repoRemover
	redis      *miniredis.Miniredis
}

func newFixture(t *testing.T, chain ...storage.Backend) *fixture {
	t.Helper()
	f := &fixture{
		repo:      repository.NewMemoryRepository(),
		primary:   storagetest.New(storage.BackendMinIO, primaryBase),
		secondary: storagetest.New(storage.BackendS3, secondaryBase),
		tasks:     &queuetest.Recorder{},
		redis:     miniredis.RunT(t),
	}
	if len(chain) == 0 {
		chain = []storage.Backend{f.primary, f.secondary}
	}

	resolver, err := storage.NewResolver(chain, []storage.Backend{f.primary, f.secondary},
		storage.WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
		storage.WithProber(storagetest.Prober{Sizes: map[string]int64{
			"https://files.example.org/probed.pdf": 2048,
		}}),
	)
	require.NoError(t, err)

	c := infraCache.NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: f.redis.Addr()}))
	f.categories = categoryService.NewCategoryService(categoryRepo.NewMemoryRepository(f.repo.CountByCategory), c)
	f.remover = &repoRemover{repo: f.repo}
	f.svc = NewService(f.repo, resolver, f.categories, f.remover, f.tasks, c)
	return f
}

func localUpload() *asset.Upload {
	return &asset.Upload{
		Title:       "Sapiens",
		Author:      "Yuval Noah Harari",
		Category:    "History",
		Description: "",
		Tags:        []string{"anthropology"},
		Cover:       storage.LocalFile{Data: []byte("\x89PNG\r\n\x1a\ncover"), Name: "cover.png"},
		Document:    storage.LocalFile{Data: []byte("%PDF-1.7 body"), Name: "Sapiens.pdf"},
	}
}

func TestIngestStoresOnPrimary(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Ingest(context.Background(), uploader, localUpload())
	require.NoError(t, err)

	assert.Equal(t, primaryBase+"/pdfs/1700000000000-Sapiens.pdf", b.FileURL)
	assert.Equal(t, primaryBase+"/covers/1700000000000-cover.png", b.CoverImageURL)
	assert.Equal(t, storage.BackendMinIO, b.FileBackend)
	assert.Equal(t, "pdfs/1700000000000-Sapiens.pdf", b.FileObjectKey)
	assert.Equal(t, int64(13), b.FileSize)
	assert.Nil(t, b.Pages)
	assert.Equal(t, "", b.Description)
	assert.Equal(t, uploader.UserID, b.UploadedBy)
	assert.Equal(t, 0, f.secondary.Puts())

	stored, err := f.svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "", stored.Description)
	assert.Equal(t, []string{"anthropology"}, stored.Tags)
}

func TestIngestFallsBackToSecondary(t *testing.T) {
	f := newFixture(t)
	f.primary.PutErr = errors.New("connection refused")

	b, err := f.svc.Ingest(context.Background(), uploader, localUpload())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(b.FileURL, secondaryBase+"/"))
	assert.True(t, strings.HasPrefix(b.CoverImageURL, secondaryBase+"/"))
	assert.Equal(t, storage.BackendS3, b.FileBackend)
	assert.Equal(t, storage.BackendS3, b.CoverBackend)
}

func TestIngestFailsWhenEveryBackendFails(t *testing.T) {
	f := newFixture(t)
	f.primary.PutErr = errors.New("connection refused")
	f.secondary.PutErr = errors.New("access denied")

	_, err := f.svc.Ingest(context.Background(), uploader, localUpload())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	assert.Equal(t, errs.KindStorage, errs.KindOf(err))

	count, _ := f.repo.Count(context.Background())
	assert.Zero(t, count)
	assert.Empty(t, f.tasks.Tasks(""))
}

func TestIngestDiscardsCoverWhenDocumentFails(t *testing.T) {
	primary := storagetest.New(storage.BackendMinIO, primaryBase)
	f := newFixture(t, docsDown{primary})
	f.primary = primary

	_, err := f.svc.Ingest(context.Background(), uploader, localUpload())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)

	assert.Empty(t, primary.Keys())
	count, _ := f.repo.Count(context.Background())
	assert.Zero(t, count)
}

func TestIngestKeepsPassedThroughAssetOnFailure(t *testing.T) {
	f := newFixture(t)
	coverURL := f.primary.Seed("covers/other-book-cover.png", []byte("\x89PNG\r\n\x1a\nother"))
	f.primary.PutErr = errors.New("connection refused")
	f.secondary.PutErr = errors.New("access denied")

	up := localUpload()
	up.Cover = storage.RemoteURL{URL: coverURL}

	_, err := f.svc.Ingest(context.Background(), uploader, up)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)

	assert.True(t, f.primary.Has("covers/other-book-cover.png"))
	assert.Empty(t, f.primary.Deletes())
}

func TestIngestRequiresUploader(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Ingest(context.Background(), nil, localUpload())
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.Zero(t, f.primary.Puts())
}

func TestIngestCreatesMissingCategory(t *testing.T) {
	f := newFixture(t)
	up := localUpload()
	up.Category = "  Philosophy "

	b, err := f.svc.Ingest(context.Background(), uploader, up)
	require.NoError(t, err)
	assert.Equal(t, "Philosophy", b.Category)

	list, err := f.categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Philosophy", list[0].Name)
	assert.Equal(t, 1, list[0].BookCount)
}

func TestIngestRemoteAssets(t *testing.T) {
	f := newFixture(t)
	up := localUpload()
	up.Cover = storage.RemoteURL{URL: "https://images.example.org/cover.jpg"}
	up.Document = storage.RemoteURL{URL: "https://files.example.org/book.pdf"}

	b, err := f.svc.Ingest(context.Background(), uploader, up)
	require.NoError(t, err)

	assert.Equal(t, "https://files.example.org/book.pdf", b.FileURL)
	assert.Equal(t, storage.UnknownSize, b.FileSize)
	assert.Empty(t, b.FileBackend)
	assert.Empty(t, b.CoverBackend)
	assert.Zero(t, f.primary.Puts())
	assert.Empty(t, f.tasks.Tasks(types.TypeCoverThumbnail))

	up.Document = storage.RemoteURL{URL: "https://files.example.org/probed.pdf"}
	b, err = f.svc.Ingest(context.Background(), uploader, up)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), b.FileSize)
}

func TestIngestEnqueuesCoverThumbnail(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Ingest(context.Background(), uploader, localUpload())
	require.NoError(t, err)

	tasks := f.tasks.Tasks(types.TypeCoverThumbnail)
	require.Len(t, tasks, 1)

	var payload types.CoverThumbnailPayload
	require.NoError(t, json.Unmarshal(tasks[0].Payload, &payload))
	assert.Equal(t, b.ID.String(), payload.BookID)
	assert.Equal(t, storage.BackendMinIO, payload.Backend)
	assert.Equal(t, "covers/1700000000000-cover.png", payload.Key)
}

func TestIngestSurvivesQueueOutage(t *testing.T) {
	f := newFixture(t)
	f.tasks.Err = errors.New("redis down")

	_, err := f.svc.Ingest(context.Background(), uploader, localUpload())
	assert.NoError(t, err)
}

func TestCreateValidatesDocumentURL(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), uploader, model.CreateBookInput{
		Title:    "Sapiens",
		Author:   "Harari",
		Category: "History",
		FileSize: 10,
		File:     model.AssetLocation{URL: "https://files.example.org/book.docx"},
	})
	require.Error(t, err)
	appErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindValidation, appErr.Kind)
	assert.Equal(t, "fileUrl", appErr.Field)
}

func TestCreateDefaultsCover(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Create(context.Background(), uploader, model.CreateBookInput{
		Title:    "Sapiens",
		Author:   "Harari",
		Category: "History",
		FileSize: 10,
		File:     model.AssetLocation{URL: "https://files.example.org/book.epub?token=1"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCoverURL, b.CoverImageURL)
	assert.Equal(t, []string{}, b.Tags)
}

func TestGetUsesCacheUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Ingest(ctx, uploader, localUpload())
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, f.redis.Exists("book:"+b.ID.String()))

	require.NoError(t, f.svc.SetCoverThumbnail(ctx, b.ID, primaryBase+"/covers/thumbs/1700000000000-cover.jpg"))
	assert.False(t, f.redis.Exists("book:"+b.ID.String()))

	got, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CoverThumbnailURL)
	assert.Equal(t, primaryBase+"/covers/thumbs/1700000000000-cover.jpg", *got.CoverThumbnailURL)
}

func TestGetMissingBook(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	_, err = f.svc.Get(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, model.ErrInvalidID)
}

func TestDeleteGoesThroughRemover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Ingest(ctx, uploader, localUpload())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, b.ID))
	assert.Equal(t, []uuid.UUID{b.ID}, f.remover.removed)

	_, err = f.svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestDeleteMissingBook(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrBookNotFound)
	assert.Empty(t, f.remover.removed)
}

func TestListFiltersByCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Ingest(ctx, uploader, localUpload())
	require.NoError(t, err)
	up := localUpload()
	up.Title, up.Category = "Meditations", "Philosophy"
	_, err = f.svc.Ingest(ctx, uploader, up)
	require.NoError(t, err)

	books, err := f.svc.List(ctx, model.ListFilter{Category: "philosophy"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Meditations", books[0].Title)

	none, err := f.svc.List(ctx, model.ListFilter{Title: "nothing matches"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestExportToExcel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Ingest(ctx, uploader, localUpload())
	require.NoError(t, err)

	file, err := f.svc.ExportToExcel(ctx, model.ListFilter{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := reopened.GetRows(exportSheet)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "Sapiens", rows[1][1])
	assert.Equal(t, "13 bytes", rows[1][8])
}
