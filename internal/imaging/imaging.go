// Package imaging validates and normalizes uploaded images.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"

	"github.com/Elementlead/PbimageS/internal/pkg/apierrors"
)

// allowedTypes maps accepted content types to whether the stdlib can decode
// them. WebP has no decoder here, so those files are stored as received.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": false,
}

// Options controls how Process normalizes an image.
type Options struct {
	MaxWidth    int
	MaxHeight   int
	JPEGQuality int
}

// Result is a processed image ready for storage.
type Result struct {
	Data        []byte
	ContentType string
}

// Allowed reports whether contentType is an accepted upload type.
func Allowed(contentType string) bool {
	_, ok := allowedTypes[contentType]
	return ok
}

// Process validates the image bytes, downscales anything larger than the
// configured bounds, and re-encodes as JPEG. GIFs and WebP files keep their
// original bytes so animation is not lost.
func Process(data []byte, contentType string, opts Options) (*Result, error) {
	decodable, ok := allowedTypes[contentType]
	if !ok {
		return nil, apierrors.NewValidationError("file",
			fmt.Sprintf("file type %q not allowed, use JPEG, PNG, GIF, or WebP", contentType))
	}
	if !decodable || contentType == "image/gif" {
		return &Result{Data: data, ContentType: contentType}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apierrors.NewValidationError("file", "invalid image file")
	}

	bounds := img.Bounds()
	if bounds.Dx() > opts.MaxWidth || bounds.Dy() > opts.MaxHeight {
		img = resize.Thumbnail(uint(opts.MaxWidth), uint(opts.MaxHeight), img, resize.Lanczos3)
	}

	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return &Result{Data: buf.Bytes(), ContentType: "image/jpeg"}, nil
}
