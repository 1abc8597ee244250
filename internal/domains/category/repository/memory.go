package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"inkdrop-backend/internal/domains/category/model"

	"github.com/google/uuid"
)

// BookCounter reports how many books carry a category name. The memory
// repository uses it to mimic the SQL join.
type BookCounter func(name string) int

// MemoryRepository is an in-process RepositoryInterface for tests.
type MemoryRepository struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*model.Category
	counts BookCounter
}

func NewMemoryRepository(counts BookCounter) *MemoryRepository {
	return &MemoryRepository{byID: map[uuid.UUID]*model.Category{}, counts: counts}
}

func (r *MemoryRepository) findByName(name string) *model.Category {
	for _, c := range r.byID {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (r *MemoryRepository) insert(name string) *model.Category {
	c := &model.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	r.byID[c.ID] = c
	return c
}

func (r *MemoryRepository) Create(_ context.Context, name string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findByName(name) != nil {
		return nil, model.ErrCategoryExists
	}
	cp := *r.insert(name)
	return &cp, nil
}

func (r *MemoryRepository) FindOrCreate(_ context.Context, name string) (*model.Category, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c := r.findByName(name); c != nil {
		cp := *c
		return &cp, false, nil
	}
	cp := *r.insert(name)
	return &cp, true, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, model.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) ListWithCounts(_ context.Context) ([]model.CategoryWithCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.CategoryWithCount, 0, len(r.byID))
	for _, c := range r.byID {
		n := 0
		if r.counts != nil {
			n = r.counts(c.Name)
		}
		out = append(out, model.CategoryWithCount{ID: c.ID, Name: c.Name, BookCount: n, Status: model.StatusActive})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return model.ErrCategoryNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}
