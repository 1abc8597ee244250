package main

import (
	"github.com/hibiken/asynq"

	bookJob "inkdrop-backend/internal/domains/book/job"
	cleanupJob "inkdrop-backend/internal/domains/cleanup/job"
	migrationJob "inkdrop-backend/internal/domains/migration/job"
	"inkdrop-backend/internal/infrastructure/storage"
	"inkdrop-backend/internal/shared"
	"inkdrop-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Storage maintenance
	deleteAsset   *cleanupJob.DeleteAssetHandler
	backfillSizes *migrationJob.BackfillSizesHandler

	// Book assets
	coverThumbnail *bookJob.CoverThumbnailHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		deleteAsset:    cleanupJob.NewDeleteAssetHandler(c.Storage),
		backfillSizes:  migrationJob.NewBackfillSizesHandler(c.Migration),
		coverThumbnail: bookJob.NewCoverThumbnailHandler(c.Storage, storage.NewImageProcessor(), c.BookService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeDeleteAsset, h.deleteAsset.ProcessTask)
	mux.HandleFunc(shared.TypeBackfillBookSizes, h.backfillSizes.ProcessTask)
	mux.HandleFunc(shared.TypeCoverThumbnail, h.coverThumbnail.ProcessTask)
}
