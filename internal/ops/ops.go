// Package ops implements the four public screenshot operations. Each
// operation takes an Input struct, applies defaults, composes the renderer,
// index, re-encoder, and journal, and returns an Output struct shaped for
// direct JSON serialization.
package ops

import (
	"bytes"
	"image"
	"net/http"
	"os"

	"go.uber.org/zap"

	"shutter/internal/config"
	"shutter/internal/errors"
	"shutter/internal/index"
	"shutter/internal/journal"
	"shutter/internal/reencode"
	"shutter/internal/renderer"
)

// Listing limits. The default mirrors the index's own fallback so both
// entry points agree on what "no limit" means.
const (
	DefaultListLimit = index.DefaultListLimit
	MaxListLimit     = 200
)

// Deps bundles the long-lived collaborators the operations compose. The
// renderer path cache lives on Invoker's resolver; passing Deps explicitly
// keeps that state instance-scoped rather than ambient.
type Deps struct {
	Cfg     *config.Config
	Invoker *renderer.Invoker
	Index   *index.Index
	Journal *journal.Journal // nil when the journal is disabled
	Logger  *zap.Logger
}

// ImagePayload describes re-encoded image bytes alongside their metadata.
// Data is carried out-of-band (MCP image content, HTTP body, file write);
// only the metadata is serialized.
type ImagePayload struct {
	Data              []byte `json:"-"`
	MIMEType          string `json:"mime_type"`
	Format            string `json:"format"`
	Width             int    `json:"width,omitempty"`
	Height            int    `json:"height,omitempty"`
	SizeBytes         int    `json:"size_bytes"`
	OptimizationRatio string `json:"optimization_ratio"`
}

// clampLimit applies the listing default and cap.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// encodePayload re-encodes the file at path and derives the ratio metadata
// against the original size.
func encodePayload(path string, originalSize int64, opts reencode.Options) (*ImagePayload, error) {
	result, err := reencode.Reencode(path, opts)
	if err != nil {
		return nil, err
	}
	return &ImagePayload{
		Data:              result.Data,
		MIMEType:          result.MIMEType(),
		Format:            string(result.Format),
		Width:             result.Width,
		Height:            result.Height,
		SizeBytes:         result.SizeBytes,
		OptimizationRatio: reencode.Ratio(result.SizeBytes, originalSize),
	}, nil
}

// rawPayload reads the stored file verbatim. Dimensions are filled in when
// the bytes decode; a 1:1 ratio is reported since nothing was re-encoded.
func rawPayload(path string, originalSize int64) (*ImagePayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewUnreadableImage(path, err)
	}

	payload := &ImagePayload{
		Data:              data,
		MIMEType:          http.DetectContentType(data),
		SizeBytes:         len(data),
		OptimizationRatio: reencode.Ratio(len(data), originalSize),
	}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		payload.Format = format
		payload.Width = cfg.Width
		payload.Height = cfg.Height
	}
	return payload, nil
}

// reencodeOptions builds re-encode options from request fields, falling back
// to configured defaults.
func (d *Deps) reencodeOptions(quality int, format string) (reencode.Options, error) {
	if format == "" {
		format = d.Cfg.DefaultFormat
	}
	parsed, err := reencode.ParseFormat(format)
	if err != nil {
		return reencode.Options{}, err
	}
	if quality <= 0 {
		quality = d.Cfg.DefaultQuality
	}
	return reencode.Options{
		Quality:   quality,
		Format:    parsed,
		MaxWidth:  d.Cfg.MaxImageWidth,
		MaxHeight: d.Cfg.MaxImageHeight,
	}, nil
}
