package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedBook struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "book:1", cachedBook{ID: "1", Title: "Sapiens"}, time.Minute))

	var got cachedBook
	found, err := c.Get(ctx, "book:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Sapiens", got.Title)
}

func TestRedisCacheMissAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var got cachedBook
	found, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "short", cachedBook{ID: "2"}, time.Second))
	mr.FastForward(2 * time.Second)

	found, err = c.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var got cachedBook
	found, err := c.Get(context.Background(), "bad", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("bad"))
}

func TestRedisCacheDeletePattern(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"books:detail:1", "books:detail:2", "categories:list"} {
		require.NoError(t, c.Set(ctx, k, cachedBook{ID: k}, time.Minute))
	}

	require.NoError(t, c.DeletePattern(ctx, "books:detail:*"))

	assert.False(t, mr.Exists("books:detail:1"))
	assert.False(t, mr.Exists("books:detail:2"))
	assert.True(t, mr.Exists("categories:list"))
	assert.NoError(t, c.Ping(ctx))
}
