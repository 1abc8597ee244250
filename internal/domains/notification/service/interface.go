package service

import (
	"context"

	"inkdrop-backend/internal/domains/notification/model"
	types "inkdrop-backend/internal/shared"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	// Create stores a notification addressed to the acting user.
	Create(ctx context.Context, actor *types.Actor, req model.CreateRequest) (*model.Notification, error)

	// List returns userID's notifications; only that user or an admin may read them.
	List(ctx context.Context, actor *types.Actor, userID uuid.UUID) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, actor *types.Actor, id uuid.UUID) error

	Notifier
}

// Notifier is what other domains use to message a user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, message string) error
}
