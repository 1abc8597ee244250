package service

import (
	"context"

	"inkdrop-backend/internal/domains/category/model"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error)
	List(ctx context.Context) ([]model.CategoryWithCount, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindOrCreate is the create-on-first-use path taken by book ingestion.
	FindOrCreate(ctx context.Context, name string) (*model.Category, error)

	// InvalidateList drops the cached listing after book counts change.
	InvalidateList(ctx context.Context)
}
