package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkdrop-backend/internal/domains/asset"
	"inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/domains/book/repository"
	categoryService "inkdrop-backend/internal/domains/category/service"
	"inkdrop-backend/internal/infrastructure/queue"
	"inkdrop-backend/internal/infrastructure/storage"
	types "inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/errs"
	"inkdrop-backend/pkg/cache"
	"inkdrop-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const bookCacheTTL = 10 * time.Minute

// BookService implements ServiceInterface
type BookService struct {
	repo       repository.RepositoryInterface
	resolver   *storage.Resolver
	categories categoryService.ServiceInterface
	remover    Remover
	queue      queue.Enqueuer
	cache      cache.Cache
}

// NewService wires the book service. cache may be nil; a nil queue disables
// thumbnail rendering.
func NewService(
	repo repository.RepositoryInterface,
	resolver *storage.Resolver,
	categories categoryService.ServiceInterface,
	remover Remover,
	enqueuer queue.Enqueuer,
	c cache.Cache,
) *BookService {
	if enqueuer == nil {
		enqueuer = queue.Discard{}
	}
	return &BookService{
		repo:       repo,
		resolver:   resolver,
		categories: categories,
		remover:    remover,
		queue:      enqueuer,
		cache:      c,
	}
}

// ========================================
// INGESTION
// ========================================

func (s *BookService) Ingest(ctx context.Context, actor *types.Actor, up *asset.Upload) (*model.Book, error) {
	if actor == nil || actor.UserID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	cover, doc, err := s.resolveAssets(ctx, up)
	if err != nil {
		return nil, err
	}

	input := model.CreateBookInput{
		Title:       up.Title,
		Author:      up.Author,
		Description: up.Description,
		Category:    up.Category,
		Tags:        up.Tags,
		FileSize:    doc.Size,
		Pages:       countPages(up.Document, doc),
		File:        location(doc),
		Cover:       location(cover),
	}

	b, err := s.Create(ctx, actor, input)
	if err != nil {
		s.discard(ctx, cover, doc)
		return nil, err
	}

	s.enqueueThumbnail(ctx, b)

	log.Info().
		Str("book_id", b.ID.String()).
		Str("file_backend", b.FileBackend).
		Str("cover_backend", b.CoverBackend).
		Int64("file_size", b.FileSize).
		Msg("Book ingested")
	return b, nil
}

// resolveAssets stores cover and document concurrently. Nothing stays behind
// in storage when either fails.
func (s *BookService) resolveAssets(ctx context.Context, up *asset.Upload) (cover, doc *storage.Resolved, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := s.resolver.Resolve(gctx, storage.FolderCovers, up.Cover)
		if err != nil {
			return fmt.Errorf("store cover: %w", err)
		}
		cover = res
		return nil
	})
	g.Go(func() error {
		res, err := s.resolver.Resolve(gctx, storage.FolderDocuments, up.Document)
		if err != nil {
			return fmt.Errorf("store document: %w", err)
		}
		doc = res
		return nil
	})

	if err := g.Wait(); err != nil {
		s.discard(ctx, cover, doc)
		return nil, nil, err
	}
	return cover, doc, nil
}

// discard best-effort deletes assets this request uploaded. Passed-through
// URLs are never touched, even when they point into one of our backends.
func (s *BookService) discard(ctx context.Context, assets ...*storage.Resolved) {
	ctx = context.WithoutCancel(ctx)
	for _, res := range assets {
		if res == nil || !res.Uploaded || !res.Stored() {
			continue
		}
		folder := storage.Folder(strings.SplitN(res.Key, "/", 2)[0])
		if err := s.resolver.Delete(ctx, res.Backend, storage.ExactRef(res.Key, folder.Kind())); err != nil {
			log.Warn().Err(err).
				Str("backend", res.Backend).
				Str("key", res.Key).
				Msg("Failed to discard orphaned asset")
		}
	}
}

func (s *BookService) enqueueThumbnail(ctx context.Context, b *model.Book) {
	if b.CoverBackend == "" || b.CoverObjectKey == "" {
		return
	}
	payload := types.CoverThumbnailPayload{
		BookID:  b.ID.String(),
		Backend: b.CoverBackend,
		Key:     b.CoverObjectKey,
	}
	err := s.queue.Enqueue(ctx, types.TypeCoverThumbnail, payload,
		asynq.Queue(types.QueueLow),
		asynq.MaxRetry(3),
	)
	if err != nil {
		log.Warn().Err(err).Str("book_id", b.ID.String()).Msg("Failed to enqueue cover thumbnail")
	}
}

func location(res *storage.Resolved) model.AssetLocation {
	return model.AssetLocation{URL: res.URL, Backend: res.Backend, Key: res.Key}
}

// countPages reads the page count from an uploaded PDF; nil when unknown.
func countPages(src storage.Source, doc *storage.Resolved) *int {
	file, ok := src.(storage.LocalFile)
	if !ok || doc.ContentType != "application/pdf" {
		return nil
	}
	pages, err := storage.CountPDFPages(file.Data)
	if err != nil || pages < 1 {
		return nil
	}
	return &pages
}

// ========================================
// RECORDS
// ========================================

func (s *BookService) Create(ctx context.Context, actor *types.Actor, input model.CreateBookInput) (*model.Book, error) {
	if actor == nil || actor.UserID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}

	cat, err := s.categories.FindOrCreate(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	b := &model.Book{
		ID:             uuid.New(),
		Title:          input.Title,
		Author:         input.Author,
		Description:    input.Description,
		Category:       cat.Name,
		FileURL:        input.File.URL,
		FileBackend:    input.File.Backend,
		FileObjectKey:  input.File.Key,
		CoverImageURL:  input.Cover.URL,
		CoverBackend:   input.Cover.Backend,
		CoverObjectKey: input.Cover.Key,
		FileSize:       input.FileSize,
		Pages:          input.Pages,
		Tags:           input.Tags,
		UploadedBy:     actor.UserID,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.categories.InvalidateList(ctx)
	logger.Info("Book created", map[string]interface{}{
		"book_id":     b.ID.String(),
		"title":       b.Title,
		"uploaded_by": actor.UserID.String(),
	})
	return b, nil
}

func (s *BookService) Get(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if id == uuid.Nil {
		return nil, model.ErrInvalidID
	}

	key := bookCacheKey(id)
	if s.cache != nil {
		var cached model.Book
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, b, bookCacheTTL); err != nil {
			log.Warn().Err(err).Str("book_id", id.String()).Msg("Failed to cache book")
		}
	}
	return b, nil
}

func (s *BookService) List(ctx context.Context, filter model.ListFilter) ([]model.Book, error) {
	books, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

// Delete removes the book, its downloads and its stored assets.
func (s *BookService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrInvalidID
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.remover.Remove(ctx, b); err != nil {
		return err
	}

	s.Invalidate(ctx, id)
	s.categories.InvalidateList(ctx)
	return nil
}

func (s *BookService) UpdateAssets(ctx context.Context, id uuid.UUID, update model.AssetUpdate) error {
	if update.Empty() {
		return nil
	}
	if err := s.repo.UpdateAssets(ctx, id, update); err != nil {
		return err
	}
	s.Invalidate(ctx, id)
	return nil
}

func (s *BookService) SetCoverThumbnail(ctx context.Context, id uuid.UUID, url string) error {
	if err := s.repo.SetCoverThumbnail(ctx, id, &url); err != nil {
		return err
	}
	s.Invalidate(ctx, id)
	return nil
}

// Invalidate drops the cached copy of a book.
func (s *BookService) Invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, bookCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("book_id", id.String()).Msg("Failed to invalidate book cache")
	}
}

func bookCacheKey(id uuid.UUID) string {
	return "book:" + id.String()
}
