package service

import (
	"context"
	"sync"
	"testing"

	bookModel "inkdrop-backend/internal/domains/book/model"
	bookRepo "inkdrop-backend/internal/domains/book/repository"
	"inkdrop-backend/internal/domains/download/model"
	"inkdrop-backend/internal/domains/download/repository"
	types "inkdrop-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoBooks struct {
	repo        *bookRepo.MemoryRepository
	invalidated []uuid.UUID
	mu          sync.Mutex
}

func (b *repoBooks) Get(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	return b.repo.GetByID(ctx, id)
}

func (b *repoBooks) Invalidate(_ context.Context, id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.invalidated = append(b.invalidated, id)
}

func seedBook(t *testing.T, repo *bookRepo.MemoryRepository, title string) *bookModel.Book {
	t.Helper()
	b := &bookModel.Book{
		ID:            uuid.New(),
		Title:         title,
		Author:        "Author",
		Category:      "History",
		FileURL:       "https://files.example.org/" + title + ".pdf",
		CoverImageURL: bookModel.DefaultCoverURL,
		FileSize:      100,
		Tags:          []string{},
		UploadedBy:    uuid.New(),
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func newService() (ServiceInterface, *bookRepo.MemoryRepository, *repository.MemoryRepository, *repoBooks) {
	books := bookRepo.NewMemoryRepository()
	downloads := repository.NewMemoryRepository(books)
	adapter := &repoBooks{repo: books}
	return NewDownloadService(downloads, adapter), books, downloads, adapter
}

func TestRecordIsIdempotent(t *testing.T) {
	svc, books, _, adapter := newService()
	ctx := context.Background()
	book := seedBook(t, books, "sapiens")
	actor := &types.Actor{UserID: uuid.New()}

	first, created, err := svc.Record(ctx, actor, book.ID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Record(ctx, actor, book.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	stored, err := books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.DownloadCount)
	require.NotNil(t, stored.LastDownloadedAt)
	assert.True(t, stored.LastDownloadedAt.Equal(first.CreatedAt))
	assert.Equal(t, []uuid.UUID{book.ID}, adapter.invalidated)
}

func TestRecordConcurrentDuplicatesCountOnce(t *testing.T) {
	svc, books, downloads, _ := newService()
	ctx := context.Background()
	book := seedBook(t, books, "sapiens")
	actor := &types.Actor{UserID: uuid.New()}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := svc.Record(ctx, actor, book.ID)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	n, _ := downloads.Count(ctx)
	assert.Equal(t, 1, n)
	stored, _ := books.GetByID(ctx, book.ID)
	assert.Equal(t, int64(1), stored.DownloadCount)
}

func TestRecordDistinctUsersEachCount(t *testing.T) {
	svc, books, _, _ := newService()
	ctx := context.Background()
	book := seedBook(t, books, "sapiens")

	for i := 0; i < 3; i++ {
		_, created, err := svc.Record(ctx, &types.Actor{UserID: uuid.New()}, book.ID)
		require.NoError(t, err)
		assert.True(t, created)
	}

	stored, _ := books.GetByID(ctx, book.ID)
	assert.Equal(t, int64(3), stored.DownloadCount)
}

func TestRecordRejectsBadInput(t *testing.T) {
	svc, _, downloads, _ := newService()
	ctx := context.Background()

	_, _, err := svc.Record(ctx, nil, uuid.New())
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, _, err = svc.Record(ctx, &types.Actor{UserID: uuid.New()}, uuid.New())
	assert.ErrorIs(t, err, bookModel.ErrBookNotFound)

	n, _ := downloads.Count(ctx)
	assert.Zero(t, n)
}

func TestListMineNewestFirst(t *testing.T) {
	svc, books, _, _ := newService()
	ctx := context.Background()
	actor := &types.Actor{UserID: uuid.New()}
	older := seedBook(t, books, "older")
	newer := seedBook(t, books, "newer")

	_, _, err := svc.Record(ctx, actor, older.ID)
	require.NoError(t, err)
	_, _, err = svc.Record(ctx, actor, newer.ID)
	require.NoError(t, err)
	_, _, err = svc.Record(ctx, &types.Actor{UserID: uuid.New()}, older.ID)
	require.NoError(t, err)

	items, err := svc.ListMine(ctx, actor)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "newer", items[0].Book.Title)
	assert.Equal(t, "older", items[1].Book.Title)
}

func TestRecentLogsCarriesEmailAndLimit(t *testing.T) {
	svc, books, downloads, _ := newService()
	ctx := context.Background()
	book := seedBook(t, books, "sapiens")
	reader := uuid.New()
	downloads.SetUserEmail(reader, "reader@inkdrop.test")

	_, _, err := svc.Record(ctx, &types.Actor{UserID: reader}, book.ID)
	require.NoError(t, err)
	_, _, err = svc.Record(ctx, &types.Actor{UserID: uuid.New()}, book.ID)
	require.NoError(t, err)

	logs, err := svc.RecentLogs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	logs, err = svc.RecentLogs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "reader@inkdrop.test", logs[1].UserEmail)
	assert.Equal(t, "sapiens", logs[1].BookTitle)
}
