package repository

import (
	"context"

	"inkdrop-backend/internal/domains/user/model"

	"github.com/google/uuid"
)

type RepositoryInterface interface {
	// Create fails with ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Count(ctx context.Context) (int, error)

	// UpdateEmail fails with ErrEmailAlreadyExists when another user holds email.
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// Delete removes the user with their downloads, requests and
	// notifications. It fails with ErrAccountHasBooks while books they
	// uploaded remain.
	Delete(ctx context.Context, id uuid.UUID) error
}
