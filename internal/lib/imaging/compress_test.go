package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T, w, h int) image.Image {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 128, A: 255})
		}
	}

	return img
}

func TestCompress_PNGKeepsDimensions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(t, 40, 30)))

	out := Compress(buf.Bytes(), "image/png")

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err, "output must stay a valid PNG")
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 30, decoded.Bounds().Dy())
}

func TestCompress_JPEGKeepsDimensions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(t, 64, 48), &jpeg.Options{Quality: 100}))

	out := Compress(buf.Bytes(), "image/jpeg")

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err, "output must stay a valid JPEG")
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())
}

func TestCompress_UnknownMimePassthrough(t *testing.T) {
	data := []byte("%PDF-1.4 not an image")

	out := Compress(data, "application/pdf")

	assert.Equal(t, data, out)
}

func TestCompress_CorruptPayloadPassthrough(t *testing.T) {
	data := []byte("definitely not a png")

	out := Compress(data, "image/png")

	assert.Equal(t, data, out, "undecodable payload must come back unchanged")
}
