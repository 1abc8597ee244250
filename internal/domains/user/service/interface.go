package service

import (
	"context"

	"inkdrop-backend/internal/domains/user/model"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	// Register creates a regular user account.
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error)

	// CreateWithRole is the operator path for seeding admin accounts.
	CreateWithRole(ctx context.Context, req model.RegisterRequest, role string) (*model.UserDTO, error)

	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.UserDTO, error)

	UpdateEmail(ctx context.Context, userID uuid.UUID, req model.UpdateEmailRequest) (*model.UserDTO, error)

	// ChangePassword requires the current password and rejects reusing it.
	ChangePassword(ctx context.Context, userID uuid.UUID, req model.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}
