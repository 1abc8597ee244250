package service

import (
	"context"
	"sync"
	"testing"

	"inkdrop-backend/internal/domains/category/model"
	"inkdrop-backend/internal/domains/category/repository"
	infraCache "inkdrop-backend/internal/infrastructure/cache"
	"inkdrop-backend/internal/shared/errs"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, counts repository.BookCounter) (ServiceInterface, *repository.MemoryRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := infraCache.NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	repo := repository.NewMemoryRepository(counts)
	return NewCategoryService(repo, c), repo, mr
}

func TestCreateRejectsDuplicate(t *testing.T) {
	svc, _, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateCategoryRequest{Name: " History "})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.CreateCategoryRequest{Name: "History"})
	assert.ErrorIs(t, err, model.ErrCategoryExists)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCreateValidatesName(t *testing.T) {
	svc, _, _ := newService(t, nil)

	_, err := svc.Create(context.Background(), model.CreateCategoryRequest{Name: "   "})
	require.Error(t, err)
	appErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, "name", appErr.Field)
}

func TestFindOrCreateConverges(t *testing.T) {
	svc, repo, _ := newService(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.FindOrCreate(ctx, "Science")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListIsCachedUntilInvalidated(t *testing.T) {
	books := map[string]int{"History": 2}
	svc, _, mr := newService(t, func(name string) int { return books[name] })
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateCategoryRequest{Name: "History"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].BookCount)
	assert.Equal(t, model.StatusActive, list[0].Status)
	assert.True(t, mr.Exists(listCacheKey))

	books["History"] = 3
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, list[0].BookCount)

	svc.InvalidateList(ctx)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, list[0].BookCount)
}

func TestDelete(t *testing.T) {
	svc, _, _ := newService(t, nil)
	ctx := context.Background()

	cat, err := svc.Create(ctx, model.CreateCategoryRequest{Name: "Poetry"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, cat.ID))
	assert.ErrorIs(t, svc.Delete(ctx, cat.ID), model.ErrCategoryNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.Nil), model.ErrInvalidID)
}
