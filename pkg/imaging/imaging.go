// Package imaging rescales uploaded product images.
//
// Images are decoded by file extension, scaled down to fit within a
// square bounding box (aspect ratio preserved, never upscaled), and
// re-encoded in their original format.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/nfnt/resize"
)

const jpegQuality = 80

// ErrUnsupportedFormat is returned for files that are not jpeg/png/gif.
var ErrUnsupportedFormat = fmt.Errorf("imaging: unsupported image format")

// SupportedExt reports whether ext (with or without leading dot) names a
// format this package can process.
func SupportedExt(ext string) bool {
	switch normalizeExt(ext) {
	case "jpg", "jpeg", "png", "gif":
		return true
	}
	return false
}

// FitWithin decodes data, scales it to fit within a bound×bound box and
// re-encodes it. Images already inside the box are re-encoded unchanged
// in dimensions.
func FitWithin(data []byte, ext string, bound int) ([]byte, error) {
	img, err := decode(data, ext)
	if err != nil {
		return nil, err
	}

	scaled := resize.Thumbnail(uint(bound), uint(bound), img, resize.Lanczos3)

	return encode(scaled, ext)
}

func decode(data []byte, ext string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch normalizeExt(ext) {
	case "jpg", "jpeg":
		img, err := jpeg.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("imaging: decode jpeg: %w", err)
		}
		return img, nil
	case "png":
		img, err := png.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("imaging: decode png: %w", err)
		}
		return img, nil
	case "gif":
		img, err := gif.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("imaging: decode gif: %w", err)
		}
		return img, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func encode(img image.Image, ext string) ([]byte, error) {
	var buf bytes.Buffer
	switch normalizeExt(ext) {
	case "jpg", "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("imaging: encode jpeg: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("imaging: encode png: %w", err)
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("imaging: encode gif: %w", err)
		}
	default:
		return nil, ErrUnsupportedFormat
	}
	return buf.Bytes(), nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
