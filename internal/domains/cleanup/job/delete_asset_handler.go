package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"inkdrop-backend/internal/infrastructure/storage"
	types "inkdrop-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// DeleteAssetHandler retries remote deletes that failed while removing a book.
type DeleteAssetHandler struct {
	resolver *storage.Resolver
}

func NewDeleteAssetHandler(resolver *storage.Resolver) *DeleteAssetHandler {
	return &DeleteAssetHandler{resolver: resolver}
}

func (h *DeleteAssetHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload types.DeleteAssetPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteAsset payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.Key == "" {
		return fmt.Errorf("empty object key: %w", asynq.SkipRetry)
	}

	ref := storage.ObjectRef{
		Key:   payload.Key,
		Kind:  storage.ResourceKind(payload.Kind),
		Exact: payload.Exact,
	}

	err := h.resolver.Delete(ctx, payload.Backend, ref)
	switch {
	case err == nil, errors.Is(err, storage.ErrObjectNotFound):
		log.Info().
			Str("book_id", payload.BookID).
			Str("backend", payload.Backend).
			Str("key", payload.Key).
			Msg("Orphaned asset deleted")
		return nil
	case errors.Is(err, storage.ErrUnknownBackend):
		return fmt.Errorf("delete %s: %w: %w", payload.Key, err, asynq.SkipRetry)
	default:
		retried, _ := asynq.GetRetryCount(ctx)
		log.Warn().Err(err).
			Int("retry", retried).
			Str("backend", payload.Backend).
			Str("key", payload.Key).
			Msg("Asset delete retry failed")
		return fmt.Errorf("delete %s: %w", payload.Key, err)
	}
}
