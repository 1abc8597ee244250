package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/infrastructure/storage"
	types "inkdrop-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ThumbnailSetter records a rendered thumbnail on its book.
type ThumbnailSetter interface {
	SetCoverThumbnail(ctx context.Context, id uuid.UUID, url string) error
}

// CoverThumbnailHandler renders a small JPEG next to a stored cover.
type CoverThumbnailHandler struct {
	resolver  *storage.Resolver
	processor *storage.ImageProcessor
	books     ThumbnailSetter
}

func NewCoverThumbnailHandler(resolver *storage.Resolver, processor *storage.ImageProcessor, books ThumbnailSetter) *CoverThumbnailHandler {
	return &CoverThumbnailHandler{resolver: resolver, processor: processor, books: books}
}

// ProcessTask downloads the cover, writes the thumbnail to the same backend
// and links it to the book.
func (h *CoverThumbnailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload types.CoverThumbnailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal CoverThumbnail payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	bookID, err := uuid.Parse(payload.BookID)
	if err != nil {
		return fmt.Errorf("invalid book id %q: %w", payload.BookID, asynq.SkipRetry)
	}

	backend, ok := h.resolver.Backend(payload.Backend)
	if !ok {
		return fmt.Errorf("unknown backend %q: %w", payload.Backend, asynq.SkipRetry)
	}

	original, err := backend.Get(ctx, payload.Key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("cover %s is gone: %w", payload.Key, asynq.SkipRetry)
		}
		return fmt.Errorf("download cover: %w", err)
	}

	thumb, err := h.processor.Thumbnail(original)
	if err != nil {
		log.Warn().Err(err).Str("book_id", payload.BookID).Msg("Cover cannot be thumbnailed")
		return fmt.Errorf("render thumbnail: %w: %w", err, asynq.SkipRetry)
	}

	thumbKey := storage.ThumbnailKey(payload.Key)
	url, err := backend.Put(ctx, thumbKey, thumb, "image/jpeg")
	if err != nil {
		return fmt.Errorf("upload thumbnail: %w", err)
	}

	if err := h.books.SetCoverThumbnail(ctx, bookID, url); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			// Book was deleted while the task waited.
			_ = backend.Delete(ctx, storage.ExactRef(thumbKey, storage.KindImage))
			return fmt.Errorf("book %s is gone: %w", payload.BookID, asynq.SkipRetry)
		}
		return fmt.Errorf("link thumbnail: %w", err)
	}

	log.Info().
		Str("book_id", payload.BookID).
		Str("thumbnail", url).
		Msg("Cover thumbnail created")
	return nil
}
