package repository

import (
	"context"

	"inkdrop-backend/internal/domains/category/model"

	"github.com/google/uuid"
)

type RepositoryInterface interface {
	// Create fails with ErrCategoryExists when the name is taken.
	Create(ctx context.Context, name string) (*model.Category, error)

	// FindOrCreate returns the category named name, inserting it when absent.
	// Concurrent calls for one name converge on a single row.
	FindOrCreate(ctx context.Context, name string) (cat *model.Category, created bool, err error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	// ListWithCounts returns every category sorted by name with its book count.
	ListWithCounts(ctx context.Context) ([]model.CategoryWithCount, error)

	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
