// Package migration moves legacy book assets onto the canonical backend.
package migration

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	bookModel "inkdrop-backend/internal/domains/book/model"
	bookRepo "inkdrop-backend/internal/domains/book/repository"
	"inkdrop-backend/internal/infrastructure/storage"
	"inkdrop-backend/internal/shared/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BackfillBatch caps how many unknown-size books one backfill run touches.
const BackfillBatch = 500

var (
	documentExtensions = []string{".pdf", ".epub"}
	coverExtensions    = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// AssetUpdater rewrites asset locations and keeps caches in step.
type AssetUpdater interface {
	UpdateAssets(ctx context.Context, id uuid.UUID, update bookModel.AssetUpdate) error
}

type Options struct {
	// DryRun locates sources but uploads and rewrites nothing.
	DryRun bool
}

// Report counts books scanned and assets by outcome.
type Report struct {
	Scanned  int `json:"scanned"`
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Missing  int `json:"missing"`
	Failed   int `json:"failed"`
}

// BackfillReport counts books whose size sentinel was replaced.
type BackfillReport struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

type Service struct {
	books    bookRepo.RepositoryInterface
	updater  AssetUpdater
	resolver *storage.Resolver
	batch    int
	now      func() time.Time
}

func NewService(books bookRepo.RepositoryInterface, updater AssetUpdater, resolver *storage.Resolver) *Service {
	if updater == nil {
		updater = books
	}
	return &Service{
		books:    books,
		updater:  updater,
		resolver: resolver,
		batch:    BackfillBatch,
		now:      time.Now,
	}
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeMigrated
	outcomeMissing
	outcomeFailed
)

// asset is one URL of a book together with where it is recorded.
type asset struct {
	folder     storage.Folder
	extensions []string
	loc        bookModel.AssetLocation
}

// MigrateAssets copies every non-canonical asset to the canonical backend and
// rewrites the book. Books already on the canonical backend are skipped, so the
// run can be repeated. A missing source is logged and the batch continues.
func (s *Service) MigrateAssets(ctx context.Context, opts Options) (*Report, error) {
	books, err := s.books.List(ctx, bookModel.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	report := &Report{}
	for i := range books {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.migrateBook(ctx, &books[i], opts, report)
	}

	log.Info().
		Bool("dry_run", opts.DryRun).
		Int("scanned", report.Scanned).
		Int("migrated", report.Migrated).
		Int("skipped", report.Skipped).
		Int("missing", report.Missing).
		Int("failed", report.Failed).
		Msg("Asset migration finished")
	return report, nil
}

func (s *Service) migrateBook(ctx context.Context, b *bookModel.Book, opts Options, report *Report) {
	report.Scanned++

	document := asset{
		folder:     storage.FolderDocuments,
		extensions: documentExtensions,
		loc:        bookModel.AssetLocation{URL: b.FileURL, Backend: b.FileBackend, Key: b.FileObjectKey},
	}
	cover := asset{
		folder:     storage.FolderCovers,
		extensions: coverExtensions,
		loc:        bookModel.AssetLocation{URL: b.CoverImageURL, Backend: b.CoverBackend, Key: b.CoverObjectKey},
	}

	var (
		update bookModel.AssetUpdate
		moved  int
	)
	for _, a := range []asset{document, cover} {
		loc, size, result := s.migrateAsset(ctx, b, a, opts)
		switch result {
		case outcomeSkipped:
			report.Skipped++
		case outcomeMissing:
			report.Missing++
		case outcomeFailed:
			report.Failed++
		case outcomeMigrated:
			moved++
			if opts.DryRun {
				continue
			}
			if a.folder == storage.FolderDocuments {
				update.File = loc
				if b.FileSize <= storage.UnknownSize {
					update.FileSize = &size
				}
			} else {
				update.Cover = loc
			}
		}
	}

	if moved == 0 {
		return
	}
	if opts.DryRun {
		report.Migrated += moved
		return
	}
	if err := s.updater.UpdateAssets(ctx, b.ID, update); err != nil {
		log.Error().Err(err).Str("book_id", b.ID.String()).Msg("Failed to rewrite migrated asset URLs")
		report.Failed += moved
		return
	}
	report.Migrated += moved
}

func (s *Service) migrateAsset(ctx context.Context, b *bookModel.Book, a asset, opts Options) (*bookModel.AssetLocation, int64, outcome) {
	if a.loc.URL == "" || a.loc.URL == bookModel.DefaultCoverURL || s.resolver.IsCanonical(a.loc.URL) {
		return nil, 0, outcomeSkipped
	}

	data, name, ok := s.findSource(ctx, b, a)
	if !ok {
		log.Warn().
			Str("book_id", b.ID.String()).
			Str("title", b.Title).
			Str("url", a.loc.URL).
			Msg("No source found for asset, skipping")
		return nil, 0, outcomeMissing
	}
	if opts.DryRun {
		log.Info().Str("book_id", b.ID.String()).Str("url", a.loc.URL).Str("source", name).Msg("Would migrate asset")
		return nil, 0, outcomeMigrated
	}

	res, err := s.resolver.PutTo(ctx, s.resolver.Canonical(), a.folder, name, data)
	if err != nil {
		log.Error().Err(err).Str("book_id", b.ID.String()).Str("url", a.loc.URL).Msg("Failed to upload migrated asset")
		return nil, 0, outcomeFailed
	}

	log.Info().
		Str("book_id", b.ID.String()).
		Str("from", a.loc.URL).
		Str("to", res.URL).
		Msg("Asset migrated")
	return &bookModel.AssetLocation{URL: res.URL, Backend: res.Backend, Key: res.Key}, int64(len(data)), outcomeMigrated
}

// findSource looks for the asset bytes: the local file the URL points at, then
// a local file named after the title slug, then the backend owning the URL.
func (s *Service) findSource(ctx context.Context, b *bookModel.Book, a asset) ([]byte, string, bool) {
	local, hasLocal := s.resolver.Backend(storage.BackendLocal)

	if hasLocal {
		if key, ok := local.KeyFromURL(a.loc.URL); ok {
			if data, ok := s.read(ctx, local, key); ok {
				return data, path.Base(key), true
			}
		}

		if slug := utils.GenerateSlug(b.Title); slug != "" {
			for _, ext := range a.extensions {
				key := string(a.folder) + "/" + slug + ext
				if data, ok := s.read(ctx, local, key); ok {
					return data, path.Base(key), true
				}
			}
		}
	}

	owner, ok := s.resolver.BackendForURL(a.loc.URL)
	if !ok || owner.Name() == s.resolver.Canonical().Name() || owner.Name() == storage.BackendLocal {
		return nil, "", false
	}
	key := a.loc.Key
	if key == "" || a.loc.Backend != owner.Name() {
		if key, ok = owner.KeyFromURL(a.loc.URL); !ok {
			return nil, "", false
		}
	}
	data, ok := s.read(ctx, owner, key)
	if !ok {
		return nil, "", false
	}
	return data, path.Base(key), true
}

func (s *Service) read(ctx context.Context, b storage.Backend, key string) ([]byte, bool) {
	data, err := b.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			log.Warn().Err(err).Str("backend", b.Name()).Str("key", key).Msg("Failed to read migration source")
		}
		return nil, false
	}
	return data, len(data) > 0
}

// BackfillSizes replaces the 1-byte size sentinel with the real document size.
// Every scanned book is stamped as checked, so books that can never be sized
// rotate to the back and later runs reach the rest.
func (s *Service) BackfillSizes(ctx context.Context) (*BackfillReport, error) {
	books, err := s.books.ListUnknownSize(ctx, s.batch)
	if err != nil {
		return nil, fmt.Errorf("list unknown sizes: %w", err)
	}

	report := &BackfillReport{Scanned: len(books)}
	ids := make([]uuid.UUID, 0, len(books))
	for i := range books {
		b := &books[i]
		ids = append(ids, b.ID)
		size, ok := s.sizeOf(ctx, b)
		if !ok || size <= storage.UnknownSize {
			continue
		}
		if err := s.updater.UpdateAssets(ctx, b.ID, bookModel.AssetUpdate{FileSize: &size}); err != nil {
			log.Error().Err(err).Str("book_id", b.ID.String()).Msg("Failed to backfill book size")
			continue
		}
		report.Updated++
	}

	if err := s.books.MarkSizeChecked(ctx, ids, s.now()); err != nil {
		log.Warn().Err(err).Int("books", len(ids)).Msg("Failed to stamp size check")
	}

	log.Info().Int("scanned", report.Scanned).Int("updated", report.Updated).Msg("Size backfill finished")
	return report, nil
}

func (s *Service) sizeOf(ctx context.Context, b *bookModel.Book) (int64, bool) {
	if b.FileBackend != "" && b.FileObjectKey != "" {
		if data, err := s.resolver.Get(ctx, b.FileBackend, b.FileObjectKey); err == nil {
			return int64(len(data)), true
		}
	}
	return s.resolver.ProbeSize(ctx, b.FileURL)
}

// Purge deletes every object under prefix on one backend.
func (s *Service) Purge(ctx context.Context, backendName, prefix string) (int, error) {
	backend, ok := s.resolver.Backend(backendName)
	if !ok {
		return 0, storage.ErrUnknownBackend.WithMessage("Unknown storage backend " + backendName)
	}
	prefix = strings.TrimLeft(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return 0, storage.ErrInvalidKey.WithMessage("Purge prefix is required")
	}

	n, err := backend.DeletePrefix(ctx, prefix)
	if err != nil {
		return n, fmt.Errorf("purge %s/%s: %w", backendName, prefix, err)
	}
	log.Warn().Str("backend", backendName).Str("prefix", prefix).Int("deleted", n).Msg("Objects purged")
	return n, nil
}
