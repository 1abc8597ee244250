package repository

import (
	"context"
	"time"

	"inkdrop-backend/internal/domains/book/model"

	"github.com/google/uuid"
)

type RepositoryInterface interface {
	Create(ctx context.Context, b *model.Book) error

	// GetByID returns ErrBookNotFound when the row does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// List returns matching books, newest first.
	List(ctx context.Context, filter model.ListFilter) ([]model.Book, error)

	// Delete removes the book row only. Callers handle dependents first.
	Delete(ctx context.Context, id uuid.UUID) error

	UpdateAssets(ctx context.Context, id uuid.UUID, update model.AssetUpdate) error
	SetCoverThumbnail(ctx context.Context, id uuid.UUID, url *string) error

	// ListUnknownSize returns books still carrying the 1-byte size sentinel,
	// never-checked first, then least recently checked.
	ListUnknownSize(ctx context.Context, limit int) ([]model.Book, error)
	MarkSizeChecked(ctx context.Context, ids []uuid.UUID, at time.Time) error

	Count(ctx context.Context) (int, error)
}

// DownloadCounter is what the download recorder needs from books.
type DownloadCounter interface {
	IncrementDownloads(ctx context.Context, id uuid.UUID, at time.Time) error
}
