// Package cleanup removes a book together with everything that hangs off it.
package cleanup

import (
	"context"
	"errors"
	"fmt"

	bookModel "inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/infrastructure/queue"
	"inkdrop-backend/internal/infrastructure/storage"
	types "inkdrop-backend/internal/shared"
	"inkdrop-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// DeleteRetries bounds how often the worker retries a failed remote delete.
const DeleteRetries = 5

// BookDeleter removes the book row.
type BookDeleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// DownloadDeleter removes every download of a book.
type DownloadDeleter interface {
	DeleteByBook(ctx context.Context, bookID uuid.UUID) (int64, error)
}

// Coordinator deletes remote assets best-effort and metadata strictly.
type Coordinator struct {
	resolver  *storage.Resolver
	downloads DownloadDeleter
	books     BookDeleter
	queue     queue.Enqueuer
}

func NewCoordinator(resolver *storage.Resolver, downloads DownloadDeleter, books BookDeleter, enqueuer queue.Enqueuer) *Coordinator {
	if enqueuer == nil {
		enqueuer = queue.Discard{}
	}
	return &Coordinator{resolver: resolver, downloads: downloads, books: books, queue: enqueuer}
}

// target is one remote object to delete.
type target struct {
	backend string
	ref     storage.ObjectRef
}

// Remove deletes the cover, the document, the downloads and finally the book
// row. Only the book row failure is returned.
func (c *Coordinator) Remove(ctx context.Context, b *bookModel.Book) error {
	if t, ok := c.locate(b.Cover(), storage.KindImage); ok {
		c.deleteRemote(ctx, b.ID, t)
	}
	if b.CoverThumbnailURL != nil {
		if t, ok := c.locateExact(*b.CoverThumbnailURL, storage.KindImage); ok {
			c.deleteRemote(ctx, b.ID, t)
		}
	}
	if t, ok := c.locate(b.File(), storage.KindRaw); ok {
		c.deleteRemote(ctx, b.ID, t)
	}

	if n, err := c.downloads.DeleteByBook(ctx, b.ID); err != nil {
		log.Error().Err(err).Str("book_id", b.ID.String()).Msg("Failed to delete book downloads")
	} else if n > 0 {
		log.Info().Int64("count", n).Str("book_id", b.ID.String()).Msg("Book downloads deleted")
	}

	if err := c.books.Delete(ctx, b.ID); err != nil {
		return err
	}

	logger.Info("Book removed", map[string]interface{}{
		"book_id": b.ID.String(),
		"title":   b.Title,
	})
	return nil
}

// locate prefers the recorded backend and key, else derives them from the URL.
func (c *Coordinator) locate(loc bookModel.AssetLocation, kind storage.ResourceKind) (target, bool) {
	if loc.Backend != "" && loc.Key != "" {
		return target{backend: loc.Backend, ref: storage.ExactRef(loc.Key, kind)}, true
	}
	if loc.URL == "" || loc.URL == bookModel.DefaultCoverURL {
		return target{}, false
	}

	backend, ok := c.resolver.BackendForURL(loc.URL)
	if !ok {
		log.Debug().Str("url", loc.URL).Msg("Asset not hosted by us, skipping delete")
		return target{}, false
	}
	ref, ok := storage.DeriveObjectRef(loc.URL)
	if !ok {
		log.Warn().Str("url", loc.URL).Msg("Cannot derive object id from asset URL, skipping delete")
		return target{}, false
	}
	ref.Kind = kind
	return target{backend: backend.Name(), ref: ref}, true
}

func (c *Coordinator) locateExact(rawURL string, kind storage.ResourceKind) (target, bool) {
	backend, ok := c.resolver.BackendForURL(rawURL)
	if !ok {
		return target{}, false
	}
	key, ok := backend.KeyFromURL(rawURL)
	if !ok {
		return target{}, false
	}
	return target{backend: backend.Name(), ref: storage.ExactRef(key, kind)}, true
}

func (c *Coordinator) deleteRemote(ctx context.Context, bookID uuid.UUID, t target) {
	err := c.resolver.Delete(ctx, t.backend, t.ref)
	if err == nil || errors.Is(err, storage.ErrObjectNotFound) {
		return
	}

	logger.Audit("asset_cleanup_failed", map[string]interface{}{
		"book_id": bookID.String(),
		"backend": t.backend,
		"key":     t.ref.Key,
		"kind":    string(t.ref.Kind),
		"error":   err.Error(),
	})
	c.resolver.Metrics().RecordCleanupFailure(t.backend, t.ref.Kind)

	payload := types.DeleteAssetPayload{
		BookID:  bookID.String(),
		Backend: t.backend,
		Key:     t.ref.Key,
		Kind:    string(t.ref.Kind),
		Exact:   t.ref.Exact,
	}
	if err := c.queue.Enqueue(ctx, types.TypeDeleteAsset, payload,
		asynq.Queue(types.QueueCritical),
		asynq.MaxRetry(DeleteRetries),
	); err != nil {
		log.Error().Err(fmt.Errorf("enqueue asset delete: %w", err)).
			Str("backend", t.backend).
			Str("key", t.ref.Key).
			Msg("Orphaned asset will not be retried")
	}
}
