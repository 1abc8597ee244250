package service

import (
	"context"

	bookModel "inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/domains/request/model"
	types "inkdrop-backend/internal/shared"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	Create(ctx context.Context, actor *types.Actor, req model.CreateRequest) (*model.Request, error)
	ListMine(ctx context.Context, actor *types.Actor) ([]model.Request, error)

	// ListAll takes an optional status in any accepted spelling.
	ListAll(ctx context.Context, status string) ([]model.Request, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateRequest) (*model.Request, error)
}

// BookFinder confirms a fulfilled request points at a real book.
type BookFinder interface {
	Get(ctx context.Context, id uuid.UUID) (*bookModel.Book, error)
}

// Notifier messages the requester when an admin changes a request's status.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, message string) error
}
