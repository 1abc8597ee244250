package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"inkdrop-backend/internal/domains/request/model"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process RepositoryInterface for tests.
type MemoryRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]model.Request
	seq  int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[uuid.UUID]model.Request{}}
}

func (r *MemoryRepository) Create(_ context.Context, req *model.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	now := time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	req.CreatedAt, req.UpdatedAt = now, now
	r.byID[req.ID] = *req
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	return &req, nil
}

func (r *MemoryRepository) filter(keep func(model.Request) bool) []model.Request {
	out := []model.Request{}
	for _, req := range r.byID {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.filter(func(req model.Request) bool { return req.RequestedBy == userID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) ListAll(_ context.Context, f model.ListFilter) ([]model.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.filter(func(req model.Request) bool {
		return f.Status == nil || req.Status == *f.Status
	}), nil
}

func (r *MemoryRepository) Update(_ context.Context, req *model.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[req.ID]
	if !ok {
		return model.ErrRequestNotFound
	}
	stored.Status = req.Status
	stored.AdminNotes = req.AdminNotes
	stored.FulfilledBookID = req.FulfilledBookID
	stored.UpdatedAt = time.Now()
	req.UpdatedAt = stored.UpdatedAt
	r.byID[req.ID] = stored
	return nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

func (r *MemoryRepository) CountByStatus(_ context.Context, status model.Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filter(func(req model.Request) bool { return req.Status == status })), nil
}

func (r *MemoryRepository) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filter(func(req model.Request) bool { return req.RequestedBy == userID })), nil
}
