package service

import (
	"context"

	"inkdrop-backend/internal/domains/asset"
	"inkdrop-backend/internal/domains/book/model"
	types "inkdrop-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type ServiceInterface interface {
	// Ingest stores the assets of a validated upload and creates the book.
	Ingest(ctx context.Context, actor *types.Actor, up *asset.Upload) (*model.Book, error)

	// Create records a book whose assets are already stored.
	Create(ctx context.Context, actor *types.Actor, input model.CreateBookInput) (*model.Book, error)

	Get(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ExportToExcel(ctx context.Context, filter model.ListFilter) (*excelize.File, error)

	UpdateAssets(ctx context.Context, id uuid.UUID, update model.AssetUpdate) error
	SetCoverThumbnail(ctx context.Context, id uuid.UUID, url string) error
	Invalidate(ctx context.Context, id uuid.UUID)
}

// Remover deletes a book together with its stored assets and downloads.
type Remover interface {
	Remove(ctx context.Context, b *model.Book) error
}
