// Package storagetest provides an in-memory storage backend for tests.
package storagetest

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	"inkdrop-backend/internal/infrastructure/storage"
)

// Backend is an in-memory storage.Backend that records every call.
type Backend struct {
	name string
	base string

	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	deletes []storage.ObjectRef

	// PutErr and DeleteErr, when set, make the matching calls fail.
	PutErr    error
	DeleteErr error
}

var _ storage.Backend = (*Backend)(nil)

// New creates a fake backend whose URLs start with base.
func New(name, base string) *Backend {
	return &Backend{
		name:    name,
		base:    strings.TrimSuffix(base, "/"),
		objects: map[string][]byte{},
	}
}

func (b *Backend) Name() string { return b.name }

func (b *Backend) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.puts++
	if b.PutErr != nil {
		return "", b.PutErr
	}
	b.objects[key] = append([]byte(nil), data...)
	return b.base + "/" + key, nil
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, ok := b.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound.Wrap(errors.New(key))
	}
	return data, nil
}

func (b *Backend) Delete(_ context.Context, ref storage.ObjectRef) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deletes = append(b.deletes, ref)
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	for key := range b.objects {
		if ref.Exact && key == ref.Key {
			delete(b.objects, key)
		}
		if !ref.Exact && strings.TrimSuffix(key, path.Ext(key)) == ref.Key {
			delete(b.objects, key)
		}
	}
	return nil
}

func (b *Backend) DeletePrefix(_ context.Context, prefix string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.DeleteErr != nil {
		return 0, b.DeleteErr
	}
	n := 0
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			delete(b.objects, key)
			n++
		}
	}
	return n, nil
}

func (b *Backend) Owns(rawURL string) bool {
	return strings.HasPrefix(rawURL, b.base+"/")
}

func (b *Backend) KeyFromURL(rawURL string) (string, bool) {
	if !b.Owns(rawURL) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, b.base+"/"), true
}

// Seed stores an object directly, bypassing Put accounting.
func (b *Backend) Seed(key string, data []byte) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return b.base + "/" + key
}

// Puts is the number of Put calls, failed ones included.
func (b *Backend) Puts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.puts
}

// Deletes returns every ref passed to Delete.
func (b *Backend) Deletes() []storage.ObjectRef {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]storage.ObjectRef(nil), b.deletes...)
}

// Keys lists stored keys in sorted order.
func (b *Backend) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is stored.
func (b *Backend) Has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

// Prober is a fixed-answer storage.SizeProber.
type Prober struct {
	Sizes map[string]int64
}

func (p Prober) ProbeSize(_ context.Context, rawURL string) (int64, bool) {
	size, ok := p.Sizes[rawURL]
	return size, ok
}
