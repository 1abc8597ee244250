package service

import (
	"context"

	bookModel "inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/domains/download/model"
	"inkdrop-backend/internal/domains/download/repository"
	types "inkdrop-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type downloadService struct {
	repo  repository.RepositoryInterface
	books Books
}

func NewDownloadService(repo repository.RepositoryInterface, books Books) ServiceInterface {
	return &downloadService{repo: repo, books: books}
}

func (s *downloadService) Record(ctx context.Context, actor *types.Actor, bookID uuid.UUID) (*model.Download, bool, error) {
	if actor == nil || actor.UserID == uuid.Nil {
		return nil, false, model.ErrUnauthenticated
	}
	if bookID == uuid.Nil {
		return nil, false, model.ErrInvalidBookID
	}

	if _, err := s.books.Get(ctx, bookID); err != nil {
		return nil, false, err
	}

	d, created, err := s.repo.Record(ctx, actor.UserID, bookID)
	if err != nil {
		return nil, false, err
	}

	if created {
		// Cached book still carries the old counter.
		s.books.Invalidate(ctx, bookID)
		log.Info().
			Str("user_id", actor.UserID.String()).
			Str("book_id", bookID.String()).
			Msg("Download recorded")
	}
	return d, created, nil
}

func (s *downloadService) Fetch(ctx context.Context, actor *types.Actor, bookID uuid.UUID) (*bookModel.Book, error) {
	if _, _, err := s.Record(ctx, actor, bookID); err != nil {
		return nil, err
	}
	return s.books.Get(ctx, bookID)
}

func (s *downloadService) ListMine(ctx context.Context, actor *types.Actor) ([]model.DownloadWithBook, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, actor.UserID, 0)
}

func (s *downloadService) RecentLogs(ctx context.Context, limit int) ([]model.RecentLog, error) {
	if limit <= 0 {
		limit = model.DefaultLogLimit
	}
	if limit > model.MaxLogLimit {
		limit = model.MaxLogLimit
	}
	return s.repo.RecentLogs(ctx, limit)
}
