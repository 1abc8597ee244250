package repository

import (
	"context"
	"errors"
	"fmt"

	bookModel "inkdrop-backend/internal/domains/book/model"
	bookRepo "inkdrop-backend/internal/domains/book/repository"
	"inkdrop-backend/internal/domains/download/model"
	"inkdrop-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

type recordResult struct {
	download *model.Download
	created  bool
}

// Record relies on uq_downloads_user_book: concurrent duplicates collapse
// into one row and one counter increment.
func (r *postgresRepository) Record(ctx context.Context, userID, bookID uuid.UUID) (*model.Download, bool, error) {
	res, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (recordResult, error) {
		d := &model.Download{ID: uuid.New(), UserID: userID, BookID: bookID}

		err := tx.QueryRow(ctx, `
			INSERT INTO downloads (id, user_id, book_id, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (user_id, book_id) DO NOTHING
			RETURNING created_at, updated_at
		`, d.ID, userID, bookID).Scan(&d.CreatedAt, &d.UpdatedAt)

		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := getByPair(ctx, tx, userID, bookID)
			return recordResult{download: existing}, err
		}
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return recordResult{}, bookModel.ErrBookNotFound.Wrap(err)
			}
			return recordResult{}, fmt.Errorf("insert download: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE books
			SET download_count = download_count + 1, last_downloaded_at = $2, updated_at = NOW()
			WHERE id = $1
		`, bookID, d.CreatedAt)
		if err != nil {
			return recordResult{}, fmt.Errorf("increment download count: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return recordResult{}, bookModel.ErrBookNotFound
		}
		return recordResult{download: d, created: true}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return res.download, res.created, nil
}

func getByPair(ctx context.Context, tx pgx.Tx, userID, bookID uuid.UUID) (*model.Download, error) {
	var d model.Download
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, book_id, created_at, updated_at
		FROM downloads
		WHERE user_id = $1 AND book_id = $2
	`, userID, bookID).Scan(&d.ID, &d.UserID, &d.BookID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get existing download: %w", err)
	}
	return &d, nil
}

// leadRow scans leading download columns ahead of the book columns.
type leadRow struct {
	row  pgx.Row
	lead []any
}

func (l leadRow) Scan(dest ...any) error {
	return l.row.Scan(append(l.lead, dest...)...)
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.DownloadWithBook, error) {
	query := `
		SELECT d.id, d.user_id, d.book_id, d.created_at, d.updated_at, ` + bookRepo.BookColumns + `
		FROM downloads d
		JOIN books b ON b.id = d.book_id
		WHERE d.user_id = $1
		ORDER BY d.created_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer rows.Close()

	out := []model.DownloadWithBook{}
	for rows.Next() {
		var item model.DownloadWithBook
		var b bookModel.Book
		row := leadRow{row: rows, lead: []any{
			&item.ID, &item.UserID, &item.BookID, &item.CreatedAt, &item.UpdatedAt,
		}}
		if err := bookRepo.ScanBook(row, &b); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		item.Book = b.ToResponse()
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *postgresRepository) RecentLogs(ctx context.Context, limit int) ([]model.RecentLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.user_id, COALESCE(u.email, ''), d.book_id, b.title, b.author, d.created_at
		FROM downloads d
		JOIN books b ON b.id = d.book_id
		LEFT JOIN users u ON u.id = d.user_id
		ORDER BY d.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list download logs: %w", err)
	}
	defer rows.Close()

	logs := []model.RecentLog{}
	for rows.Next() {
		var l model.RecentLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.UserEmail, &l.BookID, &l.BookTitle, &l.BookAuthor, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan download log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *postgresRepository) DeleteByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM downloads WHERE book_id = $1`, bookID)
	if err != nil {
		return 0, fmt.Errorf("delete downloads: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM downloads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count downloads: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM downloads WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count user downloads: %w", err)
	}
	return n, nil
}
