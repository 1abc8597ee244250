package service

import (
	"context"

	"inkdrop-backend/internal/domains/notification/model"
	"inkdrop-backend/internal/domains/notification/repository"
	types "inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type notificationService struct {
	repo repository.RepositoryInterface
}

func NewNotificationService(repo repository.RepositoryInterface) ServiceInterface {
	return &notificationService{repo: repo}
}

func (s *notificationService) Create(ctx context.Context, actor *types.Actor, req model.CreateRequest) (*model.Notification, error) {
	if actor == nil || actor.UserID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}

	n := &model.Notification{
		ID:      uuid.New(),
		UserID:  actor.UserID,
		Type:    req.Type,
		Message: req.Message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, actor *types.Actor, userID uuid.UUID) ([]model.Notification, error) {
	if actor == nil || actor.UserID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}
	if userID == uuid.Nil {
		return nil, model.ErrInvalidID
	}
	if actor.UserID != userID && !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	return s.repo.ListByUser(ctx, userID, model.ListLimit)
}

func (s *notificationService) MarkAsRead(ctx context.Context, actor *types.Actor, id uuid.UUID) error {
	if actor == nil || actor.UserID == uuid.Nil {
		return model.ErrUnauthenticated
	}
	if id == uuid.Nil {
		return model.ErrInvalidID
	}
	return s.repo.MarkAsRead(ctx, id, actor.UserID)
}

// Notify stores a system notification for userID.
func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, kind, message string) error {
	n := &model.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    kind,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	log.Debug().Str("user_id", userID.String()).Str("type", kind).Msg("Notification stored")
	return nil
}
