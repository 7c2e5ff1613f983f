// Package reencode converts stored raster files into a target encoding with
// bounded pixel dimensions for transport and viewing.
//
// Supported target formats are jpeg, png, and webp. Quality applies to jpeg;
// for png it maps to a compression level, and for webp the encoder is
// lossless so quality has no effect.
package reencode

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // webp decode registration

	"shutter/internal/errors"
)

// Format is a target image encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// Defaults for re-encode options.
const (
	DefaultQuality   = 80
	DefaultMaxWidth  = 1200
	DefaultMaxHeight = 800
)

// Options control the target encoding.
type Options struct {
	Quality   int    // 1-100, default 80
	Format    Format // default jpeg
	MaxWidth  int    // default 1200
	MaxHeight int    // default 800
}

// Result holds the re-encoded image.
type Result struct {
	Data      []byte
	SizeBytes int
	Format    Format
	Width     int
	Height    int
}

// MIMEType returns the MIME type of the result's format.
func (r *Result) MIMEType() string {
	switch r.Format {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// ParseFormat validates a format name. Unknown names are rejected up front,
// never silently mapped to a fallback.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatJPEG:
		return FormatJPEG, nil
	case FormatPNG:
		return FormatPNG, nil
	case FormatWebP:
		return FormatWebP, nil
	default:
		return "", errors.NewUnsupportedFormat(name)
	}
}

// normalize applies defaults and clamps quality into 1-100.
func (o Options) normalize() Options {
	if o.Format == "" {
		o.Format = FormatJPEG
	}
	if o.Quality <= 0 {
		o.Quality = DefaultQuality
	}
	if o.Quality > 100 {
		o.Quality = 100
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	return o
}

// Reencode reads the raster at path and produces an encoded buffer under the
// given policy. The image is scaled down, preserving aspect ratio, only when
// either dimension exceeds the bounds; it is never upscaled.
func Reencode(path string, opts Options) (*Result, error) {
	opts = opts.normalize()

	switch opts.Format {
	case FormatJPEG, FormatPNG, FormatWebP:
	default:
		return nil, errors.NewUnsupportedFormat(string(opts.Format))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewUnreadableImage(path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.NewUnreadableImage(path, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() > opts.MaxWidth || bounds.Dy() > opts.MaxHeight {
		// Fit scales down to the bounding box preserving aspect ratio and
		// never upscales.
		src = imaging.Fit(src, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
		bounds = src.Bounds()
	}

	var buf bytes.Buffer
	switch opts.Format {
	case FormatJPEG:
		err = imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
	case FormatPNG:
		err = imaging.Encode(&buf, src, imaging.PNG, imaging.PNGCompressionLevel(pngLevel(opts.Quality)))
	case FormatWebP:
		err = nativewebp.Encode(&buf, src, nil)
	}
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("encode %s: %w", opts.Format, err))
	}

	return &Result{
		Data:      buf.Bytes(),
		SizeBytes: buf.Len(),
		Format:    opts.Format,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

// Ratio formats encoded÷original as a percentage with one decimal place.
func Ratio(encoded int, original int64) string {
	if original <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(encoded)/float64(original)*100)
}

// pngLevel maps the 1-100 quality scale onto png compression levels: png is
// lossless, so lower quality selects stronger (slower) compression.
func pngLevel(quality int) png.CompressionLevel {
	switch {
	case quality <= 40:
		return png.BestCompression
	case quality >= 90:
		return png.BestSpeed
	default:
		return png.DefaultCompression
	}
}
