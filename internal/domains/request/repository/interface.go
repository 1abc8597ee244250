package repository

import (
	"context"

	"inkdrop-backend/internal/domains/request/model"

	"github.com/google/uuid"
)

type RepositoryInterface interface {
	Create(ctx context.Context, req *model.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error)

	// ListByUser and ListAll return newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Request, error)
	ListAll(ctx context.Context, filter model.ListFilter) ([]model.Request, error)

	// Update writes status, admin notes and fulfilled book.
	Update(ctx context.Context, req *model.Request) error

	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status model.Status) (int, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
