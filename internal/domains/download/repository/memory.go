package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	bookModel "inkdrop-backend/internal/domains/book/model"
	bookRepo "inkdrop-backend/internal/domains/book/repository"
	"inkdrop-backend/internal/domains/download/model"

	"github.com/google/uuid"
)

// BookStore is the part of the book repository the memory store joins against.
type BookStore interface {
	bookRepo.DownloadCounter
	GetByID(ctx context.Context, id uuid.UUID) (*bookModel.Book, error)
}

type pair struct {
	user, book uuid.UUID
}

// MemoryRepository is an in-process RepositoryInterface for tests.
type MemoryRepository struct {
	mu     sync.Mutex
	books  BookStore
	byPair map[pair]model.Download
	emails map[uuid.UUID]string
	seq    int

	// DeleteErr, when set, is returned by DeleteByBook.
	DeleteErr error
}

func NewMemoryRepository(books BookStore) *MemoryRepository {
	return &MemoryRepository{
		books:  books,
		byPair: map[pair]model.Download{},
		emails: map[uuid.UUID]string{},
	}
}

// SetUserEmail registers the email RecentLogs reports for a user.
func (r *MemoryRepository) SetUserEmail(userID uuid.UUID, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails[userID] = email
}

func (r *MemoryRepository) Record(ctx context.Context, userID, bookID uuid.UUID) (*model.Download, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pair{userID, bookID}
	if existing, ok := r.byPair[key]; ok {
		return &existing, false, nil
	}

	r.seq++
	now := time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	if err := r.books.IncrementDownloads(ctx, bookID, now); err != nil {
		return nil, false, err
	}

	d := model.Download{ID: uuid.New(), UserID: userID, BookID: bookID, CreatedAt: now, UpdatedAt: now}
	r.byPair[key] = d
	return &d, true, nil
}

func (r *MemoryRepository) sorted(keep func(model.Download) bool) []model.Download {
	var out []model.Download
	for _, d := range r.byPair {
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.DownloadWithBook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.DownloadWithBook{}
	for _, d := range r.sorted(func(d model.Download) bool { return d.UserID == userID }) {
		if limit > 0 && len(out) == limit {
			break
		}
		b, err := r.books.GetByID(ctx, d.BookID)
		if err != nil {
			continue
		}
		out = append(out, model.DownloadWithBook{Download: d, Book: b.ToResponse()})
	}
	return out, nil
}

func (r *MemoryRepository) RecentLogs(ctx context.Context, limit int) ([]model.RecentLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs := []model.RecentLog{}
	for _, d := range r.sorted(func(model.Download) bool { return true }) {
		if len(logs) == limit {
			break
		}
		b, err := r.books.GetByID(ctx, d.BookID)
		if err != nil {
			continue
		}
		logs = append(logs, model.RecentLog{
			ID:         d.ID,
			UserID:     d.UserID,
			UserEmail:  r.emails[d.UserID],
			BookID:     d.BookID,
			BookTitle:  b.Title,
			BookAuthor: b.Author,
			CreatedAt:  d.CreatedAt,
		})
	}
	return logs, nil
}

func (r *MemoryRepository) DeleteByBook(_ context.Context, bookID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.DeleteErr != nil {
		return 0, r.DeleteErr
	}
	var n int64
	for key := range r.byPair {
		if key.book == bookID {
			delete(r.byPair, key)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byPair), nil
}

func (r *MemoryRepository) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for key := range r.byPair {
		if key.user == userID {
			n++
		}
	}
	return n, nil
}
