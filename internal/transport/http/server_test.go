package http

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormContext(t *testing.T, contentType, body string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest("POST", "/api/v1/admin/rooms", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec)
}

func TestParseCreateRoomInput_URLEncodedForm(t *testing.T) {
	form := url.Values{}
	form.Set("name", "  Atrium  ")
	form.Set("location", "Floor 2")
	form.Set("capacity", "12")
	form.Set("description", "Bright corner room")
	form.Add("facilities", "Projector")
	form.Add("facilities", "Whiteboard")
	form.Add("imageUrls", "https://cdn/x/a.webp")
	form.Add("imageUrls", "https://cdn/x/b.webp")
	form.Set("cover_1", "true")

	c := newFormContext(t, echo.MIMEApplicationForm, form.Encode())

	r := &Routers{}
	input, err := r.parseCreateRoomInput(c)
	require.NoError(t, err)

	assert.Equal(t, "Atrium", input.Name)
	assert.Equal(t, "Floor 2", input.Location)
	assert.Equal(t, 12, input.Capacity)
	assert.Equal(t, []string{"Projector", "Whiteboard"}, input.Facilities)
	assert.Equal(t, []string{"https://cdn/x/a.webp", "https://cdn/x/b.webp"}, input.ImageURLs)
	assert.Equal(t, map[int]bool{1: true}, input.CoverFlags)
}

func TestParseCreateRoomInput_MultipartForm(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Atrium"))
	require.NoError(t, w.WriteField("location", "Floor 2"))
	require.NoError(t, w.WriteField("capacity", "8"))
	require.NoError(t, w.WriteField("imageUrls", "https://cdn/x/a.webp"))
	require.NoError(t, w.WriteField("cover_0", "true"))
	require.NoError(t, w.Close())

	c := newFormContext(t, w.FormDataContentType(), buf.String())

	r := &Routers{}
	input, err := r.parseCreateRoomInput(c)
	require.NoError(t, err)

	assert.Equal(t, "Atrium", input.Name)
	assert.Equal(t, 8, input.Capacity)
	assert.Equal(t, []string{"https://cdn/x/a.webp"}, input.ImageURLs)
	assert.Equal(t, map[int]bool{0: true}, input.CoverFlags)
}

func TestParseCreateRoomInput_InvalidCapacity(t *testing.T) {
	form := url.Values{}
	form.Set("name", "Atrium")
	form.Set("capacity", "lots")

	c := newFormContext(t, echo.MIMEApplicationForm, form.Encode())

	r := &Routers{}
	_, err := r.parseCreateRoomInput(c)
	assert.Error(t, err)
}
