package service

import (
	"context"
	"fmt"

	bookModel "inkdrop-backend/internal/domains/book/model"
	bookRepo "inkdrop-backend/internal/domains/book/repository"
	"inkdrop-backend/internal/domains/dashboard/model"
	downloadRepo "inkdrop-backend/internal/domains/download/repository"
	requestModel "inkdrop-backend/internal/domains/request/model"
	requestRepo "inkdrop-backend/internal/domains/request/repository"
	types "inkdrop-backend/internal/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ServiceInterface interface {
	AdminStats(ctx context.Context) (*model.AdminStats, error)
	UserDashboard(ctx context.Context, actor *types.Actor) (*model.UserDashboard, error)
}

// UserCounter counts registered users.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// UnreadCounter counts a user's unread notifications.
type UnreadCounter interface {
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

type dashboardService struct {
	books     bookRepo.RepositoryInterface
	users     UserCounter
	downloads downloadRepo.RepositoryInterface
	requests  requestRepo.RepositoryInterface
	unread    UnreadCounter
}

func NewDashboardService(
	books bookRepo.RepositoryInterface,
	users UserCounter,
	downloads downloadRepo.RepositoryInterface,
	requests requestRepo.RepositoryInterface,
	unread UnreadCounter,
) ServiceInterface {
	return &dashboardService{books: books, users: users, downloads: downloads, requests: requests, unread: unread}
}

func (s *dashboardService) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { stats.TotalBooks, err = s.books.Count(gctx); return })
	g.Go(func() (err error) { stats.TotalUsers, err = s.users.Count(gctx); return })
	g.Go(func() (err error) { stats.TotalDownloads, err = s.downloads.Count(gctx); return })
	g.Go(func() (err error) { stats.TotalRequests, err = s.requests.Count(gctx); return })
	g.Go(func() (err error) {
		stats.PendingRequests, err = s.requests.CountByStatus(gctx, requestModel.StatusPending)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return &stats, nil
}

func (s *dashboardService) UserDashboard(ctx context.Context, actor *types.Actor) (*model.UserDashboard, error) {
	if actor == nil || actor.UserID == uuid.Nil {
		return nil, requestModel.ErrUnauthenticated
	}
	userID := actor.UserID

	var d model.UserDashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		uploads, err := s.books.List(gctx, bookModel.ListFilter{UploadedBy: &userID})
		if err != nil {
			return err
		}
		d.Totals.Uploads = len(uploads)
		if len(uploads) > model.RecentItems {
			uploads = uploads[:model.RecentItems]
		}
		d.RecentUploads = bookModel.ToResponses(uploads)
		return nil
	})
	g.Go(func() (err error) {
		d.RecentDownloads, err = s.downloads.ListByUser(gctx, userID, model.RecentItems)
		return
	})
	g.Go(func() (err error) { d.Totals.Downloads, err = s.downloads.CountByUser(gctx, userID); return })
	g.Go(func() (err error) {
		d.RecentRequests, err = s.requests.ListByUser(gctx, userID, model.RecentItems)
		return
	})
	g.Go(func() (err error) { d.Totals.Requests, err = s.requests.CountByUser(gctx, userID); return })
	g.Go(func() (err error) { d.Totals.UnreadNotifications, err = s.unread.CountUnread(gctx, userID); return })

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("user dashboard: %w", err)
	}
	return &d, nil
}
