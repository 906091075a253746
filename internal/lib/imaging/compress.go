package imaging

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/chai2010/webp"
)

// Quality applied when re-encoding lossy formats (0-100).
const compressionQuality = 80

// Compress re-encodes recognized raster images (PNG, JPEG, WebP) at a fixed
// quality to shrink the stored object. Dimensions and color are untouched.
// Compression is best-effort: unrecognized formats and undecodable payloads
// come back unchanged, never as an error.
func Compress(data []byte, mimeType string) []byte {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return compressPNG(data)
	case "image/jpeg", "image/jpg":
		return compressJPEG(data)
	case "image/webp":
		return compressWebP(data)
	default:
		return data
	}
}

func compressPNG(data []byte) []byte {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	enc := png.Encoder{CompressionLevel: png.BestCompression}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return data
	}

	return buf.Bytes()
}

func compressJPEG(data []byte) []byte {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: compressionQuality}); err != nil {
		return data
	}

	return buf.Bytes()
}

func compressWebP(data []byte) []byte {
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: compressionQuality}); err != nil {
		return data
	}

	return buf.Bytes()
}
