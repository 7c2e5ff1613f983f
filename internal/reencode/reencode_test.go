package reencode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shutter/internal/errors"
)

// writeTestPNG writes a w×h PNG to dir and returns its path.
func writeTestPNG(t *testing.T, dir string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	path := filepath.Join(dir, "source.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return path
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"jpeg", FormatJPEG, false},
		{"png", FormatPNG, false},
		{"webp", FormatWebP, false},
		{"", FormatJPEG, false},
		{" JPEG ", FormatJPEG, false},
		{"gif", "", true},
		{"bmp", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrUnsupportedFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want UNSUPPORTED_FORMAT", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReencode_NeverUpscales(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), 300, 200)

	result, err := Reencode(path, Options{Format: FormatJPEG, MaxWidth: 1200, MaxHeight: 800})
	if err != nil {
		t.Fatalf("Reencode failed: %v", err)
	}

	if result.Width != 300 || result.Height != 200 {
		t.Errorf("dimensions = %dx%d, want 300x200 (no upscale)", result.Width, result.Height)
	}
}

func TestReencode_BoundsWithAspectRatio(t *testing.T) {
	// 2400x1200: wider than tall, scale factor limited by width
	path := writeTestPNG(t, t.TempDir(), 2400, 1200)

	result, err := Reencode(path, Options{Format: FormatPNG, MaxWidth: 1200, MaxHeight: 800})
	if err != nil {
		t.Fatalf("Reencode failed: %v", err)
	}

	if result.Width > 1200 || result.Height > 800 {
		t.Errorf("dimensions = %dx%d, exceed bounds 1200x800", result.Width, result.Height)
	}
	// 2:1 aspect ratio preserved within rounding
	ratio := float64(result.Width) / float64(result.Height)
	if ratio < 1.98 || ratio > 2.02 {
		t.Errorf("aspect ratio = %.3f, want ~2.0", ratio)
	}
}

func TestReencode_OutputFormats(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, 100, 80)

	tests := []struct {
		format Format
		magic  []byte
		offset int
	}{
		{FormatJPEG, []byte{0xFF, 0xD8, 0xFF}, 0},
		{FormatPNG, []byte{0x89, 'P', 'N', 'G'}, 0},
		{FormatWebP, []byte("WEBP"), 8},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			result, err := Reencode(path, Options{Format: tt.format, Quality: 80})
			if err != nil {
				t.Fatalf("Reencode failed: %v", err)
			}
			if result.SizeBytes == 0 || result.SizeBytes != len(result.Data) {
				t.Errorf("SizeBytes = %d, len(Data) = %d", result.SizeBytes, len(result.Data))
			}
			if len(result.Data) < tt.offset+len(tt.magic) {
				t.Fatalf("output too short: %d bytes", len(result.Data))
			}
			if !bytes.Equal(result.Data[tt.offset:tt.offset+len(tt.magic)], tt.magic) {
				t.Errorf("output does not carry %s magic bytes", tt.format)
			}
		})
	}
}

func TestReencode_JPEGDecodable(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), 120, 90)

	result, err := Reencode(path, Options{Format: FormatJPEG, Quality: 80})
	if err != nil {
		t.Fatalf("Reencode failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode re-encoded output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("decoded format = %q, want jpeg", format)
	}
	if cfg.Width != 120 || cfg.Height != 90 {
		t.Errorf("decoded dimensions = %dx%d, want 120x90", cfg.Width, cfg.Height)
	}
}

func TestReencode_MissingFile(t *testing.T) {
	_, err := Reencode(filepath.Join(t.TempDir(), "nope.png"), Options{})
	if !errors.Is(err, errors.ErrUnreadableImage) {
		t.Errorf("error = %v, want UNREADABLE_IMAGE", err)
	}
}

func TestReencode_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(path, []byte("not a raster"), 0600); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	_, err := Reencode(path, Options{})
	if !errors.Is(err, errors.ErrUnreadableImage) {
		t.Errorf("error = %v, want UNREADABLE_IMAGE", err)
	}
}

func TestReencode_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.png")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("write empty: %v", err)
	}

	_, err := Reencode(path, Options{})
	if !errors.Is(err, errors.ErrUnreadableImage) {
		t.Errorf("error = %v, want UNREADABLE_IMAGE", err)
	}
}

func TestReencode_RejectsUnknownFormat(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), 10, 10)

	_, err := Reencode(path, Options{Format: Format("tiff")})
	if !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want UNSUPPORTED_FORMAT", err)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		encoded  int
		original int64
		want     string
	}{
		{50, 100, "50.0%"},
		{1, 3, "33.3%"},
		{200, 100, "200.0%"},
		{10, 0, "0.0%"},
	}

	for _, tt := range tests {
		got := Ratio(tt.encoded, tt.original)
		if got != tt.want {
			t.Errorf("Ratio(%d, %d) = %q, want %q", tt.encoded, tt.original, got, tt.want)
		}
		if !strings.HasSuffix(got, "%") {
			t.Errorf("Ratio(%d, %d) = %q, missing %% suffix", tt.encoded, tt.original, got)
		}
	}
}
