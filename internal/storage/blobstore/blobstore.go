package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/fleetimee/solid-spoon/internal/config"
)

const (
	rootFolder = "uploads"
	subFolder  = "images"
)

// BlobStorage stores binary objects in an S3-compatible store and maps
// between object keys and the public URLs handed to clients.
type BlobStorage interface {
	// Store writes the object under a fresh unique key preserving the
	// original file extension and returns its public URL. The caller-supplied
	// name is never used as the key.
	Store(ctx context.Context, data []byte, originalName, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL inverts Store's URL construction. When the URL does not
	// carry the configured bucket prefix the whole input is returned as the
	// key with exact=false; callers must surface that condition.
	KeyFromURL(url string) (key string, exact bool)
	PublicURL(key string) string
}

// MinioStorage is the MinIO-backed implementation.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStorage(cfg config.BlobStorageConfig) (*MinioStorage, error) {
	const op = "storage.blobstore.NewMinioStorage"

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &MinioStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (s *MinioStorage) Store(ctx context.Context, data []byte, originalName, contentType string) (string, error) {
	const op = "storage.blobstore.Store"

	key := newObjectKey(originalName)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.PublicURL(key), nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	const op = "storage.blobstore.Delete"

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *MinioStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}

func (s *MinioStorage) KeyFromURL(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", s.publicURL, s.bucket)

	if strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix), true
	}

	return url, false
}

// newObjectKey builds uploads/images/<uuid><ext>. A generated name prevents
// overwrites and path traversal through the caller-supplied filename.
func newObjectKey(originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))

	return path.Join(rootFolder, subFolder, uuid.New().String()+ext)
}
