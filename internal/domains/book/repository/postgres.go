package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkdrop-backend/internal/domains/book/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// BookColumns is the select list every scan in this package expects.
const BookColumns = `b.id, b.title, b.author, b.description, b.category,
	b.file_url, b.file_backend, b.file_object_key,
	b.cover_image_url, b.cover_backend, b.cover_object_key, b.cover_thumbnail_url,
	b.file_size, b.pages, b.tags, b.download_count, b.last_downloaded_at,
	b.uploaded_by, b.created_at, b.updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// ScanBook reads one row selected with BookColumns.
func ScanBook(row pgx.Row, b *model.Book) error {
	var tags pq.StringArray
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Category,
		&b.FileURL, &b.FileBackend, &b.FileObjectKey,
		&b.CoverImageURL, &b.CoverBackend, &b.CoverObjectKey, &b.CoverThumbnailURL,
		&b.FileSize, &b.Pages, &tags, &b.DownloadCount, &b.LastDownloadedAt,
		&b.UploadedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	b.Tags = []string(tags)
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) error {
	query := `
		INSERT INTO books (
			id, title, author, description, category,
			file_url, file_backend, file_object_key,
			cover_image_url, cover_backend, cover_object_key,
			file_size, pages, tags, uploaded_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		b.ID, b.Title, b.Author, b.Description, b.Category,
		b.FileURL, b.FileBackend, b.FileObjectKey,
		b.CoverImageURL, b.CoverBackend, b.CoverObjectKey,
		b.FileSize, b.Pages, pq.Array(b.Tags), b.UploadedBy,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrUnauthenticated.Wrap(err)
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + BookColumns + ` FROM books b WHERE b.id = $1`

	var b model.Book
	if err := ScanBook(r.pool.QueryRow(ctx, query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Book, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}

	if filter.UploadedBy != nil {
		add("b.uploaded_by = ?", *filter.UploadedBy)
	}
	if filter.Category != "" {
		add("b.category ILIKE ?", likePattern(filter.Category))
	}
	if filter.Title != "" {
		add("b.title ILIKE ?", likePattern(filter.Title))
	}
	if filter.Author != "" {
		add("b.author ILIKE ?", likePattern(filter.Author))
	}
	if filter.Query != "" {
		add("(b.title ILIKE ? OR b.author ILIKE ? OR b.description ILIKE ?)", likePattern(filter.Query))
	}

	query := `SELECT ` + BookColumns + ` FROM books b`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY b.created_at DESC`

	return r.query(ctx, query, args...)
}

func (r *postgresRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		var b model.Book
		if err := ScanBook(rows, &b); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// likePattern escapes LIKE metacharacters and wraps s for substring search.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateAssets(ctx context.Context, id uuid.UUID, update model.AssetUpdate) error {
	if update.Empty() {
		return nil
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if f := update.File; f != nil {
		set("file_url", f.URL)
		set("file_backend", f.Backend)
		set("file_object_key", f.Key)
	}
	if c := update.Cover; c != nil {
		set("cover_image_url", c.URL)
		set("cover_backend", c.Backend)
		set("cover_object_key", c.Key)
		sets = append(sets, "cover_thumbnail_url = NULL")
	}
	if update.FileSize != nil {
		set("file_size", *update.FileSize)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE books SET %s, updated_at = NOW() WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update book assets: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) SetCoverThumbnail(ctx context.Context, id uuid.UUID, url *string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET cover_thumbnail_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("set cover thumbnail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) ListUnknownSize(ctx context.Context, limit int) ([]model.Book, error) {
	query := `SELECT ` + BookColumns + ` FROM books b
		WHERE b.file_size = 1
		ORDER BY b.size_checked_at ASC NULLS FIRST, b.created_at ASC
		LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *postgresRepository) MarkSizeChecked(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `UPDATE books SET size_checked_at = $2 WHERE id = ANY($1::uuid[])`, ids, at)
	if err != nil {
		return fmt.Errorf("mark size checked: %w", err)
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
