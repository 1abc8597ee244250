package repository

import (
	"context"
	"errors"
	"fmt"

	"inkdrop-backend/internal/domains/request/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `r.id, r.title, r.author, r.category, r.additional_notes,
	r.requested_by, COALESCE(u.email, ''), r.status, r.admin_notes, r.fulfilled_book_id,
	r.created_at, r.updated_at`

const requestFrom = `FROM requests r LEFT JOIN users u ON u.id = r.requested_by`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanRequest(row pgx.Row, req *model.Request) error {
	var status string
	err := row.Scan(
		&req.ID, &req.Title, &req.Author, &req.Category, &req.AdditionalNotes,
		&req.RequestedBy, &req.RequesterEmail, &status, &req.AdminNotes, &req.FulfilledBookID,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return err
	}
	// Rows written before the status vocabulary was unified.
	if parsed, perr := model.ParseStatus(status); perr == nil {
		req.Status = parsed
	} else {
		req.Status = model.Status(status)
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, req *model.Request) error {
	query := `
		INSERT INTO requests (
			id, title, author, category, additional_notes, requested_by, status, admin_notes,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		req.ID, req.Title, req.Author, req.Category, req.AdditionalNotes,
		req.RequestedBy, string(req.Status), req.AdminNotes,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	query := `SELECT ` + requestColumns + ` ` + requestFrom + ` WHERE r.id = $1`

	var req model.Request
	if err := scanRequest(r.pool.QueryRow(ctx, query, id), &req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRequestNotFound
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return &req, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Request, error) {
	query := `SELECT ` + requestColumns + ` ` + requestFrom + `
		WHERE r.requested_by = $1
		ORDER BY r.created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

func (r *postgresRepository) ListAll(ctx context.Context, filter model.ListFilter) ([]model.Request, error) {
	query := `SELECT ` + requestColumns + ` ` + requestFrom
	var args []any
	if filter.Status != nil {
		query += ` WHERE r.status = $1`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY r.created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...any) ([]model.Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	out := []model.Request{}
	for rows.Next() {
		var req model.Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, req *model.Request) error {
	query := `
		UPDATE requests
		SET status = $2, admin_notes = $3, fulfilled_book_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, req.ID, string(req.Status), req.AdminNotes, req.FulfilledBookID).
		Scan(&req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrRequestNotFound
		}
		return fmt.Errorf("update request: %w", err)
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) CountByStatus(ctx context.Context, status model.Status) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM requests WHERE status = $1`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count requests by status: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM requests WHERE requested_by = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count user requests: %w", err)
	}
	return n, nil
}
