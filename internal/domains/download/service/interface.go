package service

import (
	"context"

	bookModel "inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/domains/download/model"
	types "inkdrop-backend/internal/shared"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	// Record is idempotent per (actor, book).
	Record(ctx context.Context, actor *types.Actor, bookID uuid.UUID) (d *model.Download, created bool, err error)

	// Fetch records the download and returns the book to send the caller to.
	Fetch(ctx context.Context, actor *types.Actor, bookID uuid.UUID) (*bookModel.Book, error)

	ListMine(ctx context.Context, actor *types.Actor) ([]model.DownloadWithBook, error)
	RecentLogs(ctx context.Context, limit int) ([]model.RecentLog, error)
}

// Books is what downloads need from the book service.
type Books interface {
	Get(ctx context.Context, id uuid.UUID) (*bookModel.Book, error)
	Invalidate(ctx context.Context, id uuid.UUID)
}
