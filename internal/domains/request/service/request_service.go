package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookModel "inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/domains/request/model"
	"inkdrop-backend/internal/domains/request/repository"
	types "inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type requestService struct {
	repo     repository.RepositoryInterface
	books    BookFinder
	notifier Notifier
}

// NewRequestService wires the service. notifier may be nil.
func NewRequestService(repo repository.RepositoryInterface, books BookFinder, notifier Notifier) ServiceInterface {
	return &requestService{repo: repo, books: books, notifier: notifier}
}

func (s *requestService) Create(ctx context.Context, actor *types.Actor, in model.CreateRequest) (*model.Request, error) {
	if actor == nil || actor.UserID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}

	req := &model.Request{
		ID:              uuid.New(),
		Title:           in.Title,
		Author:          in.Author,
		Category:        in.Category,
		AdditionalNotes: in.AdditionalNotes,
		RequestedBy:     actor.UserID,
		RequesterEmail:  actor.Email,
		Status:          model.StatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Info().Str("request_id", req.ID.String()).Str("title", req.Title).Msg("Book request created")
	return req, nil
}

func (s *requestService) ListMine(ctx context.Context, actor *types.Actor) ([]model.Request, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, actor.UserID, 0)
}

func (s *requestService) ListAll(ctx context.Context, status string) ([]model.Request, error) {
	var filter model.ListFilter
	if strings.TrimSpace(status) != "" {
		st, err := model.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}
	return s.repo.ListAll(ctx, filter)
}

func (s *requestService) Update(ctx context.Context, id uuid.UUID, in model.UpdateRequest) (*model.Request, error) {
	if id == uuid.Nil {
		return nil, model.ErrInvalidID
	}
	if err := in.Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}
	status, _ := model.ParseStatus(in.Status)

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := req.Status
	req.Status = status
	if in.AdminNotes != nil {
		req.AdminNotes = strings.TrimSpace(*in.AdminNotes)
	}
	if in.FulfilledBookID != nil {
		// An empty id unlinks the book.
		raw := strings.TrimSpace(*in.FulfilledBookID)
		if raw == "" {
			req.FulfilledBookID = nil
		} else {
			bookID, err := uuid.Parse(raw)
			if err != nil {
				return nil, model.ErrInvalidBookID
			}
			req.FulfilledBookID = &bookID
		}
	}

	if status == model.StatusFulfilled {
		if req.FulfilledBookID == nil {
			return nil, model.ErrFulfilledNoBook
		}
		if _, err := s.books.Get(ctx, *req.FulfilledBookID); err != nil {
			if errors.Is(err, bookModel.ErrBookNotFound) {
				return nil, model.ErrFulfilledUnknown
			}
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", req.ID.String()).
		Str("status", string(req.Status)).
		Msg("Book request updated")

	if status != previous {
		s.notifyStatus(ctx, req)
	}
	return req, nil
}

// notifyStatus tells the requester about a status change. Failures are
// logged and never fail the update.
func (s *requestService) notifyStatus(ctx context.Context, req *model.Request) {
	if s.notifier == nil {
		return
	}

	kind := "info"
	switch req.Status {
	case model.StatusApproved, model.StatusFulfilled:
		kind = "success"
	case model.StatusRejected:
		kind = "warning"
	}
	msg := fmt.Sprintf("Your request for %q is now %s", req.Title, strings.ToLower(string(req.Status)))

	if err := s.notifier.Notify(ctx, req.RequestedBy, kind, msg); err != nil {
		log.Warn().Err(err).Str("request_id", req.ID.String()).Msg("Failed to notify requester")
	}
}
