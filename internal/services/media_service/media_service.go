package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/fleetimee/solid-spoon/internal/lib/imaging"
	"github.com/fleetimee/solid-spoon/internal/lib/logger/sl"
	"github.com/fleetimee/solid-spoon/internal/storage"
	"github.com/fleetimee/solid-spoon/internal/storage/blobstore"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type MediaService struct {
	log     *slog.Logger
	blob    blobstore.BlobStorage
	maxSize int64
}

func NewMediaService(log *slog.Logger, blob blobstore.BlobStorage, maxSize int64) *MediaService {
	return &MediaService{
		log:     log,
		blob:    blob,
		maxSize: maxSize,
	}
}

// UploadImage validates, compresses and stores a single image, returning
// its public URL. Compression is best effort; the original bytes are kept
// when the image cannot be re-encoded.
func (s *MediaService) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	const op = "media_service.UploadImage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", file.Filename),
		slog.Int64("size", file.Size),
	)

	contentType := file.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		log.Warn("rejected upload", slog.String("content_type", contentType))
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	if file.Size > s.maxSize {
		log.Warn("rejected upload", slog.Int64("max_size", s.maxSize))
		return "", fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	src, err := file.Open()
	if err != nil {
		log.Error("failed to open uploaded file", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error("failed to read uploaded file", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	compressed := imaging.Compress(data, contentType)

	url, err := s.blob.Store(ctx, compressed, file.Filename, contentType)
	if err != nil {
		log.Error("failed to store file", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image uploaded",
		slog.String("url", url),
		slog.Int("stored_bytes", len(compressed)),
	)

	return url, nil
}

// DeleteImage removes the object behind a previously returned URL. When
// the URL does not match our public prefix the raw value is used as the
// key, which at worst deletes nothing.
func (s *MediaService) DeleteImage(ctx context.Context, fileURL string) error {
	const op = "media_service.DeleteImage"

	log := s.log.With(slog.String("op", op), slog.String("url", fileURL))

	key, exact := s.blob.KeyFromURL(fileURL)
	if !exact {
		log.Warn("url does not match storage prefix, using raw value as key")
	}

	if err := s.blob.Delete(ctx, key); err != nil {
		log.Error("failed to delete file", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image deleted", slog.String("key", key))

	return nil
}
