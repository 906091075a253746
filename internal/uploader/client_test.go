package uploader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Upload(t *testing.T) {
	var gotFilename string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/uploads", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()
		gotFilename = header.Filename

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"fileUrl": "https://cdn.example.com/uploads/images/abc.png",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)

	url, err := client.Upload(context.Background(), "room.png", []byte{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/images/abc.png", url)
	assert.Equal(t, "room.png", gotFilename)
}

func TestClient_Upload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too large", http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)

	_, err := client.Upload(context.Background(), "room.png", []byte{1})

	assert.ErrorContains(t, err, "413")
}

func TestClient_Delete(t *testing.T) {
	var gotURL string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotURL = body["fileUrl"]

		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)

	err := client.Delete(context.Background(), "https://cdn.example.com/uploads/images/abc.png")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/images/abc.png", gotURL)
}
