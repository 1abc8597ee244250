package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"inkdrop-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOBackend is the primary object store.
type MinIOBackend struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinIOBackend creates the client and makes sure the bucket exists.
func NewMinIOBackend(ctx context.Context, cfg config.MinIOConfig) (*MinIOBackend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	publicBase := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicBase == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		// http://localhost:9000/inkdrop
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, client.EndpointURL().Host, cfg.Bucket)
	}

	return &MinIOBackend{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: publicBase,
	}, nil
}

func (s *MinIOBackend) Name() string { return BackendMinIO }

// Put uploads data under key, e.g. pdfs/1700000000000-sapiens.pdf
func (s *MinIOBackend) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return joinURL(s.publicBase, key), nil
}

func (s *MinIOBackend) Get(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound.Wrap(err)
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

func (s *MinIOBackend) Delete(ctx context.Context, ref ObjectRef) error {
	if ref.Exact {
		if err := s.client.RemoveObject(ctx, s.bucket, ref.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete object: %w", err)
		}
		return nil
	}

	keys, err := s.listKeys(ctx, listPrefix(ref), func(key string) bool { return matchesRef(key, ref) })
	if err != nil {
		return err
	}
	return s.removeObjects(ctx, keys)
}

// DeletePrefix removes a whole folder, e.g. "pdfs/".
func (s *MinIOBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := s.listKeys(ctx, prefix, nil)
	if err != nil {
		return 0, err
	}
	if err := s.removeObjects(ctx, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (s *MinIOBackend) Owns(rawURL string) bool {
	_, ok := keyUnder(s.publicBase, rawURL)
	return ok
}

func (s *MinIOBackend) KeyFromURL(rawURL string) (string, bool) {
	return keyUnder(s.publicBase, rawURL)
}

func (s *MinIOBackend) listKeys(ctx context.Context, prefix string, keep func(string) bool) ([]string, error) {
	objectsCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var keys []string
	for object := range objectsCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if keep == nil || keep(object.Key) {
			keys = append(keys, object.Key)
		}
	}
	return keys, nil
}

func (s *MinIOBackend) removeObjects(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	go func() {
		defer close(objectsCh)
		for _, key := range keys {
			objectsCh <- minio.ObjectInfo{Key: key}
		}
	}()

	for rmErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			return fmt.Errorf("failed to remove %s: %w", rmErr.ObjectName, rmErr.Err)
		}
	}
	return nil
}
