package service

import (
	"context"
	"time"

	"inkdrop-backend/internal/domains/category/model"
	"inkdrop-backend/internal/domains/category/repository"
	"inkdrop-backend/internal/shared/errs"
	"inkdrop-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	listCacheKey = "categories:list"
	listCacheTTL = 10 * time.Minute
)

type categoryService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

// NewCategoryService wires the service. cache may be nil.
func NewCategoryService(repo repository.RepositoryInterface, c cache.Cache) ServiceInterface {
	return &categoryService{repo: repo, cache: c}
}

func (s *categoryService) Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	req.Name = model.NormalizeName(req.Name)
	if err := req.Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}

	cat, err := s.repo.Create(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	s.InvalidateList(ctx)
	log.Info().Str("category", cat.Name).Msg("Category created")
	return cat, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.CategoryWithCount, error) {
	if s.cache != nil {
		var cached []model.CategoryWithCount
		if found, err := s.cache.Get(ctx, listCacheKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	categories, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listCacheKey, categories, listCacheTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to cache category list")
		}
	}
	return categories, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateList(ctx)
	return nil
}

func (s *categoryService) FindOrCreate(ctx context.Context, name string) (*model.Category, error) {
	name = model.NormalizeName(name)
	if err := (model.CreateCategoryRequest{Name: name}).Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}

	cat, created, err := s.repo.FindOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info().Str("category", cat.Name).Msg("Category created on first use")
	}
	return cat, nil
}

func (s *categoryService) InvalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate category list cache")
	}
}
