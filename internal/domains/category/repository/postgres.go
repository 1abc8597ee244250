package repository

import (
	"context"
	"errors"
	"fmt"

	"inkdrop-backend/internal/domains/category/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, name string) (*model.Category, error) {
	query := `
		INSERT INTO categories (id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, name, created_at
	`

	var cat model.Category
	err := r.pool.QueryRow(ctx, query, uuid.New(), name).Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, model.ErrCategoryExists
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &cat, nil
}

// FindOrCreate relies on the unique name index: ON CONFLICT DO NOTHING returns
// no row when another request won the race, and the follow-up SELECT reads it.
func (r *postgresRepository) FindOrCreate(ctx context.Context, name string) (*model.Category, bool, error) {
	insert := `
		INSERT INTO categories (id, name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at
	`

	var cat model.Category
	err := r.pool.QueryRow(ctx, insert, uuid.New(), name).Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if err == nil {
		return &cat, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("insert category: %w", err)
	}

	err = r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE name = $1`, name).
		Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("select category: %w", err)
	}
	return &cat, false, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var cat model.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE id = $1`, id).
		Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &cat, nil
}

func (r *postgresRepository) ListWithCounts(ctx context.Context) ([]model.CategoryWithCount, error) {
	query := `
		SELECT c.id, c.name, COUNT(b.id)
		FROM categories c
		LEFT JOIN books b ON b.category = c.name
		GROUP BY c.id, c.name
		ORDER BY c.name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []model.CategoryWithCount{}
	for rows.Next() {
		c := model.CategoryWithCount{Status: model.StatusActive}
		if err := rows.Scan(&c.ID, &c.Name, &c.BookCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}
