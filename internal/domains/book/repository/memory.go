package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inkdrop-backend/internal/domains/book/model"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process RepositoryInterface for tests.
type MemoryRepository struct {
	mu    sync.Mutex
	books   map[uuid.UUID]model.Book
	checked map[uuid.UUID]time.Time
	seq     int

	// DeleteErr, when set, makes Delete fail.
	DeleteErr error
}

var (
	_ RepositoryInterface = (*MemoryRepository)(nil)
	_ DownloadCounter     = (*MemoryRepository)(nil)
)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{books: map[uuid.UUID]model.Book{}, checked: map[uuid.UUID]time.Time{}}
}

func (r *MemoryRepository) Create(_ context.Context, b *model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strictly increasing timestamps keep newest-first ordering deterministic.
	r.seq++
	now := time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	b.CreatedAt, b.UpdatedAt = now, now
	r.books[b.ID] = clone(*b)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	cp := clone(b)
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context, filter model.ListFilter) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.Book{}
	for _, b := range r.books {
		if matches(b, filter) {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func matches(b model.Book, f model.ListFilter) bool {
	contains := func(field, sub string) bool {
		return sub == "" || strings.Contains(strings.ToLower(field), strings.ToLower(sub))
	}
	if f.UploadedBy != nil && b.UploadedBy != *f.UploadedBy {
		return false
	}
	if !contains(b.Category, f.Category) || !contains(b.Title, f.Title) || !contains(b.Author, f.Author) {
		return false
	}
	if f.Query != "" && !contains(b.Title, f.Query) && !contains(b.Author, f.Query) && !contains(b.Description, f.Query) {
		return false
	}
	return true
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	if _, ok := r.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *MemoryRepository) UpdateAssets(_ context.Context, id uuid.UUID, update model.AssetUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	if f := update.File; f != nil {
		b.FileURL, b.FileBackend, b.FileObjectKey = f.URL, f.Backend, f.Key
	}
	if c := update.Cover; c != nil {
		b.CoverImageURL, b.CoverBackend, b.CoverObjectKey = c.URL, c.Backend, c.Key
		b.CoverThumbnailURL = nil
	}
	if update.FileSize != nil {
		b.FileSize = *update.FileSize
	}
	b.UpdatedAt = time.Now()
	r.books[id] = b
	return nil
}

func (r *MemoryRepository) SetCoverThumbnail(_ context.Context, id uuid.UUID, url *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	b.CoverThumbnailURL = url
	r.books[id] = b
	return nil
}

func (r *MemoryRepository) ListUnknownSize(_ context.Context, limit int) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.Book{}
	for _, b := range r.books {
		if b.FileSize == 1 {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ci, iok := r.checked[out[i].ID]
		cj, jok := r.checked[out[j].ID]
		if iok != jok {
			return !iok
		}
		if iok && !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) MarkSizeChecked(_ context.Context, ids []uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.checked[id] = at
	}
	return nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.books), nil
}

// IncrementDownloads implements DownloadCounter.
func (r *MemoryRepository) IncrementDownloads(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	b.DownloadCount++
	b.LastDownloadedAt = &at
	r.books[id] = b
	return nil
}

// CountByCategory reports books filed under name.
func (r *MemoryRepository) CountByCategory(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, b := range r.books {
		if b.Category == name {
			n++
		}
	}
	return n
}

func clone(b model.Book) model.Book {
	b.Tags = append([]string{}, b.Tags...)
	return b
}
