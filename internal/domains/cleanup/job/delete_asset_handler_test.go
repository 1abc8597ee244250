package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"inkdrop-backend/internal/infrastructure/storage"
	"inkdrop-backend/internal/infrastructure/storage/storagetest"
	types "inkdrop-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deleteTask(t *testing.T, p types.DeleteAssetPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(types.TypeDeleteAsset, data)
}

func newHandler(t *testing.T) (*DeleteAssetHandler, *storagetest.Backend) {
	t.Helper()
	backend := storagetest.New(storage.BackendS3, "https://secondary.test/backup")
	resolver, err := storage.NewResolver([]storage.Backend{backend}, nil)
	require.NoError(t, err)
	return NewDeleteAssetHandler(resolver), backend
}

func TestDeleteAssetRetrySucceeds(t *testing.T) {
	h, backend := newHandler(t)
	backend.Seed("covers/1700-cover.png", []byte("img"))

	err := h.ProcessTask(context.Background(), deleteTask(t, types.DeleteAssetPayload{
		Backend: storage.BackendS3, Key: "covers/1700-cover.png", Kind: "image", Exact: true,
	}))
	require.NoError(t, err)
	assert.False(t, backend.Has("covers/1700-cover.png"))
}

func TestDeleteAssetStillFailingIsRetried(t *testing.T) {
	h, backend := newHandler(t)
	backend.DeleteErr = errors.New("throttled")

	err := h.ProcessTask(context.Background(), deleteTask(t, types.DeleteAssetPayload{
		Backend: storage.BackendS3, Key: "pdfs/1700-book", Kind: "raw",
	}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestDeleteAssetUnknownBackendIsDropped(t *testing.T) {
	h, _ := newHandler(t)

	err := h.ProcessTask(context.Background(), deleteTask(t, types.DeleteAssetPayload{
		Backend: "cloudinary", Key: "pdfs/1700-book", Kind: "raw",
	}))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestDeleteAssetBadPayload(t *testing.T) {
	h, _ := newHandler(t)

	err := h.ProcessTask(context.Background(), asynq.NewTask(types.TypeDeleteAsset, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
