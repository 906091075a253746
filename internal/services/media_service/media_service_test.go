package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	services "github.com/fleetimee/solid-spoon/internal/services/media_service"
	"github.com/fleetimee/solid-spoon/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Store(ctx context.Context, data []byte, originalName, contentType string) (string, error) {
	args := m.Called(ctx, data, originalName, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBlobStorage) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}

func (m *MockBlobStorage) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func createTestFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, fh, err := req.FormFile("file")
	require.NoError(t, err)
	file.Close()

	return fh
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))

	return buf.Bytes()
}

func TestMediaService_UploadImage(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	t.Run("successful upload", func(t *testing.T) {
		mockBlob := new(MockBlobStorage)
		service := services.NewMediaService(log, mockBlob, 1<<20)

		file := createTestFile(t, "room.png", "image/png", testPNG(t))

		mockBlob.On("Store", ctx, mock.AnythingOfType("[]uint8"), "room.png", "image/png").
			Return("https://minio.example.com/room-images/uploads/images/abc.png", nil).Once()

		url, err := service.UploadImage(ctx, file)

		require.NoError(t, err)
		assert.Equal(t, "https://minio.example.com/room-images/uploads/images/abc.png", url)
		mockBlob.AssertExpectations(t)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		mockBlob := new(MockBlobStorage)
		service := services.NewMediaService(log, mockBlob, 1<<20)

		file := createTestFile(t, "notes.pdf", "application/pdf", []byte("%PDF-1.4"))

		_, err := service.UploadImage(ctx, file)

		assert.ErrorIs(t, err, storage.ErrInvalidFileType)
		mockBlob.AssertExpectations(t)
	})

	t.Run("file over the size limit", func(t *testing.T) {
		mockBlob := new(MockBlobStorage)
		service := services.NewMediaService(log, mockBlob, 4)

		file := createTestFile(t, "room.png", "image/png", testPNG(t))

		_, err := service.UploadImage(ctx, file)

		assert.ErrorIs(t, err, storage.ErrFileTooLarge)
		mockBlob.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockBlob := new(MockBlobStorage)
		service := services.NewMediaService(log, mockBlob, 1<<20)

		file := createTestFile(t, "room.png", "image/png", testPNG(t))

		mockBlob.On("Store", ctx, mock.AnythingOfType("[]uint8"), "room.png", "image/png").
			Return("", errors.New("connection refused")).Once()

		_, err := service.UploadImage(ctx, file)

		assert.Error(t, err)
		mockBlob.AssertExpectations(t)
	})
}

func TestMediaService_DeleteImage(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	t.Run("url resolved to key", func(t *testing.T) {
		mockBlob := new(MockBlobStorage)
		service := services.NewMediaService(log, mockBlob, 1<<20)

		url := "https://minio.example.com/room-images/uploads/images/abc.png"
		mockBlob.On("KeyFromURL", url).Return("uploads/images/abc.png", true).Once()
		mockBlob.On("Delete", ctx, "uploads/images/abc.png").Return(nil).Once()

		err := service.DeleteImage(ctx, url)

		require.NoError(t, err)
		mockBlob.AssertExpectations(t)
	})

	t.Run("foreign url falls back to raw value", func(t *testing.T) {
		mockBlob := new(MockBlobStorage)
		service := services.NewMediaService(log, mockBlob, 1<<20)

		url := "https://elsewhere.example.com/x.png"
		mockBlob.On("KeyFromURL", url).Return(url, false).Once()
		mockBlob.On("Delete", ctx, url).Return(nil).Once()

		err := service.DeleteImage(ctx, url)

		require.NoError(t, err)
		mockBlob.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockBlob := new(MockBlobStorage)
		service := services.NewMediaService(log, mockBlob, 1<<20)

		url := "https://minio.example.com/room-images/uploads/images/abc.png"
		mockBlob.On("KeyFromURL", url).Return("uploads/images/abc.png", true).Once()
		mockBlob.On("Delete", ctx, "uploads/images/abc.png").
			Return(errors.New("connection refused")).Once()

		err := service.DeleteImage(ctx, url)

		assert.Error(t, err)
		mockBlob.AssertExpectations(t)
	})
}
