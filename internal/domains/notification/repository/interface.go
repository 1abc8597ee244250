package repository

import (
	"context"

	"inkdrop-backend/internal/domains/notification/model"

	"github.com/google/uuid"
)

type RepositoryInterface interface {
	Create(ctx context.Context, n *model.Notification) error

	// ListByUser returns newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)

	// MarkAsRead fails with ErrNotificationNotFound unless id belongs to userID.
	// Marking an already read notification is not an error.
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error

	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}
