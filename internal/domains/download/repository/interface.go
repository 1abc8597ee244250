package repository

import (
	"context"

	"inkdrop-backend/internal/domains/download/model"

	"github.com/google/uuid"
)

type RepositoryInterface interface {
	// Record inserts the (user, book) download once. created is false when it
	// already existed; the book's counter only moves on creation.
	Record(ctx context.Context, userID, bookID uuid.UUID) (d *model.Download, created bool, err error)

	// ListByUser returns the user's downloads joined with books, newest first.
	// limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.DownloadWithBook, error)

	RecentLogs(ctx context.Context, limit int) ([]model.RecentLog, error)
	DeleteByBook(ctx context.Context, bookID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
