package storage

import (
	"context"

	"inkdrop-backend/internal/shared/errs"
)

// Folder is the namespace an asset is stored under.
type Folder string

const (
	FolderCovers    Folder = "covers"
	FolderDocuments Folder = "pdfs"
)

// ResourceKind tells a backend how the object is treated: covers are images,
// documents are raw blobs.
type ResourceKind string

const (
	KindImage ResourceKind = "image"
	KindRaw   ResourceKind = "raw"
)

func (f Folder) Kind() ResourceKind {
	if f == FolderCovers {
		return KindImage
	}
	return KindRaw
}

// Backend names persisted next to each asset URL.
const (
	BackendMinIO = "minio"
	BackendS3    = "s3"
	BackendLocal = "local"
)

// ObjectRef identifies an object to delete.
// When Exact is false, Key is an identifier without extension derived from a
// URL, and every object whose key minus extension equals it is removed.
type ObjectRef struct {
	Key   string
	Kind  ResourceKind
	Exact bool
}

// Backend is one place assets can live.
type Backend interface {
	Name() string
	// Put writes data under key and returns the public URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Get returns the object bytes or ErrObjectNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, ref ObjectRef) error
	// DeletePrefix removes every object under prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	// Owns reports whether rawURL points into this backend.
	Owns(rawURL string) bool
	// KeyFromURL maps an owned URL back to its object key.
	KeyFromURL(rawURL string) (string, bool)
}

var (
	ErrStorageUnavailable = errs.New(errs.KindStorage, "STORAGE_UNAVAILABLE", "File storage is unavailable, please try again later")
	ErrObjectNotFound     = errs.New(errs.KindNotFound, "OBJECT_NOT_FOUND", "Stored file not found")
	ErrUnknownBackend     = errs.New(errs.KindValidation, "UNKNOWN_BACKEND", "Unknown storage backend")
	ErrInvalidKey         = errs.New(errs.KindValidation, "INVALID_OBJECT_KEY", "Invalid object key")
)
