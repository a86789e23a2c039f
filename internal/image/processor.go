// Package image declares the image-processing port and its imaging-backed implementation.
package image

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/and161185/wzs-web/internal/errs"
)

// ResizeOpts bounds the output in pixels.
type ResizeOpts struct {
	MaxWidth  int
	MaxHeight int
}

// Processor resizes images without changing their format family.
type Processor interface {
	// Supports reports whether contentType is in the processor's closed MIME set.
	Supports(contentType string) bool
	// Resize fits data inside opts, preserving aspect ratio and never
	// upscaling, and re-encodes it as contentType.
	Resize(data []byte, contentType string, opts ResizeOpts) ([]byte, error)
}

// JPEGQuality is used when re-encoding JPEG output.
const JPEGQuality = 85

// Imaging implements Processor with github.com/disintegration/imaging.
type Imaging struct{}

var _ Processor = Imaging{}

// Supports accepts image/gif, image/jpeg, image/jpg and image/png, case-insensitively.
func (Imaging) Supports(contentType string) bool {
	_, ok := formatFor(contentType)
	return ok
}

// Resize decodes data whatever its actual format, fits it inside opts and
// encodes the result in the format named by contentType.
func (Imaging) Resize(data []byte, contentType string, opts ResizeOpts) ([]byte, error) {
	format, ok := formatFor(contentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedMedia, contentType)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", errs.ErrImage, err)
	}
	if opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxWidth || b.Dy() > opts.MaxHeight {
			img = imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Linear)
		}
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", errs.ErrImage, err)
	}
	return out.Bytes(), nil
}

func formatFor(contentType string) (imaging.Format, bool) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return imaging.JPEG, true
	case "image/png":
		return imaging.PNG, true
	case "image/gif":
		return imaging.GIF, true
	}
	return 0, false
}
