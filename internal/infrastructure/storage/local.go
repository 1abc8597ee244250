package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalBackend keeps assets on disk and serves them under a public path.
// It is the last-resort target and the home of legacy uploads.
type LocalBackend struct {
	dir        string
	publicPath string
}

// NewLocalBackend creates the base directory if missing.
func NewLocalBackend(dir, publicPath string) (*LocalBackend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalBackend{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

func (l *LocalBackend) Name() string { return BackendLocal }

// Dir is the filesystem root served under the public path.
func (l *LocalBackend) Dir() string { return l.dir }

// PublicPath is the URL path prefix, e.g. /uploads
func (l *LocalBackend) PublicPath() string { return l.publicPath }

func (l *LocalBackend) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	target, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return joinURL(l.publicPath, key), nil
}

func (l *LocalBackend) Get(_ context.Context, key string) ([]byte, error) {
	target, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound.Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func (l *LocalBackend) Delete(_ context.Context, ref ObjectRef) error {
	if ref.Exact {
		target, err := l.resolve(ref.Key)
		if err != nil {
			return err
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove file: %w", err)
		}
		return nil
	}

	folder, err := l.resolve(path.Dir(ref.Key))
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(folder)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read folder: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := path.Join(path.Dir(ref.Key), entry.Name())
		if !matchesRef(key, ref) {
			continue
		}
		if err := os.Remove(filepath.Join(folder, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove file: %w", err)
		}
	}
	return nil
}

func (l *LocalBackend) DeletePrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	err := filepath.WalkDir(l.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.dir, p)
		if err != nil {
			return err
		}
		if !strings.HasPrefix(filepath.ToSlash(rel), prefix) {
			return nil
		}
		if err := os.Remove(p); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("delete prefix %s: %w", prefix, err)
	}
	return removed, nil
}

// Owns accepts host-less URLs under the public path, e.g. /uploads/pdfs/x.pdf
func (l *LocalBackend) Owns(rawURL string) bool {
	_, ok := l.KeyFromURL(rawURL)
	return ok
}

func (l *LocalBackend) KeyFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != "" {
		return "", false
	}
	p := "/" + strings.TrimPrefix(u.Path, "/")
	prefix := l.publicPath + "/"
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(p, prefix)
	return key, key != ""
}

// resolve maps a key to a path inside dir, rejecting traversal.
func (l *LocalBackend) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", ErrInvalidKey
	}
	return filepath.Join(l.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
