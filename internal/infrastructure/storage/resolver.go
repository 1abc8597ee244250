package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Resolver turns asset sources into durable URLs.
// chain[0] is the canonical backend; later entries are upload fallbacks.
type Resolver struct {
	chain    []Backend
	all      []Backend
	backends map[string]Backend
	prober   SizeProber
	metrics  *Metrics
	now      func() time.Time
}

type Option func(*Resolver)

func WithProber(p SizeProber) Option {
	return func(r *Resolver) { r.prober = p }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver builds a resolver uploading through chain. extra backends are
// only used to resolve and delete existing assets.
func NewResolver(chain []Backend, extra []Backend, opts ...Option) (*Resolver, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("storage resolver needs at least one upload backend")
	}

	r := &Resolver{
		chain:    chain,
		backends: make(map[string]Backend, len(chain)+len(extra)),
		now:      time.Now,
	}
	for _, b := range append(append([]Backend{}, chain...), extra...) {
		if _, dup := r.backends[b.Name()]; dup {
			continue
		}
		r.backends[b.Name()] = b
		r.all = append(r.all, b)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve stores or passes through src under folder.
func (r *Resolver) Resolve(ctx context.Context, folder Folder, src Source) (*Resolved, error) {
	switch s := src.(type) {
	case LocalFile:
		return r.upload(ctx, folder, s)
	case *LocalFile:
		return r.upload(ctx, folder, *s)
	case RemoteURL:
		return r.passThrough(ctx, s), nil
	case *RemoteURL:
		return r.passThrough(ctx, *s), nil
	default:
		return nil, fmt.Errorf("unsupported asset source %T", src)
	}
}

func (r *Resolver) upload(ctx context.Context, folder Folder, file LocalFile) (*Resolved, error) {
	key := ObjectKey(folder, file.Name, r.now())
	contentType := DetectContentType(file.Data, file.MimeType)

	var failures []error
	for i, backend := range r.chain {
		if i > 0 {
			r.metrics.RecordFallback()
			log.Warn().
				Str("backend", backend.Name()).
				Str("key", key).
				Msg("Falling back to secondary storage")
		}

		res, err := r.put(ctx, backend, key, file.Data, contentType)
		if err == nil {
			return res, nil
		}

		failures = append(failures, fmt.Errorf("%s: %w", backend.Name(), err))
		log.Error().
			Err(err).
			Str("backend", backend.Name()).
			Str("key", key).
			Msg("Asset upload failed")
	}

	return nil, ErrStorageUnavailable.Wrap(errors.Join(failures...))
}

func (r *Resolver) put(ctx context.Context, backend Backend, key string, data []byte, contentType string) (*Resolved, error) {
	start := time.Now()
	url, err := backend.Put(ctx, key, data, contentType)
	r.metrics.RecordUpload(backend.Name(), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		URL:         url,
		Backend:     backend.Name(),
		Key:         key,
		Size:        int64(len(data)),
		SizeKnown:   true,
		ContentType: contentType,
		Uploaded:    true,
	}, nil
}

func (r *Resolver) passThrough(ctx context.Context, remote RemoteURL) *Resolved {
	res := &Resolved{URL: remote.URL, Size: UnknownSize}

	if backend, ok := r.BackendForURL(remote.URL); ok {
		if key, ok := backend.KeyFromURL(remote.URL); ok {
			res.Backend = backend.Name()
			res.Key = key
		}
	}

	if r.prober != nil {
		if size, ok := r.prober.ProbeSize(ctx, remote.URL); ok {
			res.Size = size
			res.SizeKnown = true
		}
	}
	return res
}

// PutTo uploads to one specific backend with no fallback.
func (r *Resolver) PutTo(ctx context.Context, backend Backend, folder Folder, name string, data []byte) (*Resolved, error) {
	key := ObjectKey(folder, name, r.now())
	res, err := r.put(ctx, backend, key, data, DetectContentType(data, ""))
	if err != nil {
		return nil, ErrStorageUnavailable.Wrap(err)
	}
	return res, nil
}

// PutKey writes data under an explicit key on the canonical backend.
func (r *Resolver) PutKey(ctx context.Context, key string, data []byte, contentType string) (*Resolved, error) {
	res, err := r.put(ctx, r.Canonical(), key, data, contentType)
	if err != nil {
		return nil, ErrStorageUnavailable.Wrap(err)
	}
	return res, nil
}

// Canonical is the backend new uploads go to first.
func (r *Resolver) Canonical() Backend {
	return r.chain[0]
}

// IsCanonical reports whether rawURL already points at the canonical backend.
func (r *Resolver) IsCanonical(rawURL string) bool {
	return r.Canonical().Owns(rawURL)
}

// Backend looks a backend up by its persisted name.
func (r *Resolver) Backend(name string) (Backend, bool) {
	b, ok := r.backends[name]
	return b, ok
}

// Backends lists every registered backend, upload chain first.
func (r *Resolver) Backends() []Backend {
	return append([]Backend{}, r.all...)
}

// BackendForURL finds the backend that owns rawURL.
func (r *Resolver) BackendForURL(rawURL string) (Backend, bool) {
	for _, b := range r.all {
		if b.Owns(rawURL) {
			return b, true
		}
	}
	return nil, false
}

// Get reads an object from a named backend.
func (r *Resolver) Get(ctx context.Context, backendName, key string) ([]byte, error) {
	b, ok := r.Backend(backendName)
	if !ok {
		return nil, ErrUnknownBackend.WithMessage("Unknown storage backend " + backendName)
	}
	return b.Get(ctx, key)
}

// Delete removes ref from a named backend.
func (r *Resolver) Delete(ctx context.Context, backendName string, ref ObjectRef) error {
	b, ok := r.Backend(backendName)
	if !ok {
		return ErrUnknownBackend.WithMessage("Unknown storage backend " + backendName)
	}
	return b.Delete(ctx, ref)
}

// ProbeSize asks the prober for a remote asset size.
func (r *Resolver) ProbeSize(ctx context.Context, rawURL string) (int64, bool) {
	if r.prober == nil {
		return 0, false
	}
	return r.prober.ProbeSize(ctx, rawURL)
}

func (r *Resolver) Metrics() *Metrics {
	return r.metrics
}
