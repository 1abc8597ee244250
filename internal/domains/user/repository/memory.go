package repository

import (
	"context"
	"sync"
	"time"

	"inkdrop-backend/internal/domains/user/model"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process RepositoryInterface for tests.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User

	// DeleteErr, when set, is returned by Delete instead of removing the user.
	DeleteErr error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: map[uuid.UUID]model.User{}}
}

func (r *MemoryRepository) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return model.ErrEmailAlreadyExists
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *MemoryRepository) UpdateEmail(_ context.Context, id uuid.UUID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	for otherID, existing := range r.users {
		if otherID != id && existing.Email == email {
			return model.ErrEmailAlreadyExists
		}
	}
	u.Email = email
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	if _, ok := r.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}
