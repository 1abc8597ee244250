package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"inkdrop-backend/internal/domains/notification/model"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process RepositoryInterface for tests.
type MemoryRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]model.Notification
	seq  int
}

var _ RepositoryInterface = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[uuid.UUID]model.Notification{}}
}

func (r *MemoryRepository) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.seq++
	n.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	r.byID[n.ID] = *n
	return nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.Notification{}
	for _, n := range r.byID {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) MarkAsRead(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return model.ErrNotificationNotFound
	}
	if !n.IsRead {
		now := time.Now()
		n.IsRead, n.ReadAt = true, &now
		r.byID[id] = n
	}
	return nil
}

func (r *MemoryRepository) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, n := range r.byID {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
