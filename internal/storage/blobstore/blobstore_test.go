package blobstore

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *MinioStorage {
	t.Helper()

	return &MinioStorage{
		bucket:    "room-images",
		publicURL: "https://minio.example.com",
	}
}

func TestKeyFromURL_RoundTrip(t *testing.T) {
	s := newTestStorage(t)

	keys := []string{
		"uploads/images/8f14e45f-ceea-467f-9a2d-6d0c1b2f3a4b.png",
		"uploads/images/8f14e45f-ceea-467f-9a2d-6d0c1b2f3a4b.jpg",
		"uploads/images/no-extension",
	}

	for _, key := range keys {
		url := s.PublicURL(key)

		got, exact := s.KeyFromURL(url)
		assert.True(t, exact)
		assert.Equal(t, key, got)
	}
}

func TestKeyFromURL_ForeignURL(t *testing.T) {
	s := newTestStorage(t)

	foreign := "https://cdn.other.example/room-images/uploads/images/x.png"

	got, exact := s.KeyFromURL(foreign)
	assert.False(t, exact)
	assert.Equal(t, foreign, got, "foreign input must pass through unmodified")
}

func TestKeyFromURL_WrongBucket(t *testing.T) {
	s := newTestStorage(t)

	url := "https://minio.example.com/other-bucket/uploads/images/x.png"

	_, exact := s.KeyFromURL(url)
	assert.False(t, exact)
}

func TestNewObjectKey(t *testing.T) {
	key := newObjectKey("Board Room.PNG")

	require.True(t, strings.HasPrefix(key, "uploads/images/"))
	assert.Equal(t, ".png", path.Ext(key), "extension is preserved lowercase")
	assert.NotContains(t, key, "Board Room", "original name must not leak into the key")

	other := newObjectKey("Board Room.PNG")
	assert.NotEqual(t, key, other, "keys are unique per call")
}
