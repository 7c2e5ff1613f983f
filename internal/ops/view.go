package ops

import (
	"context"
	"os"
	"path/filepath"

	"shutter/internal/errors"
)

// ViewInput contains parameters for the View operation.
type ViewInput struct {
	ScreenshotID string
	Optimize     *bool // default: true
	Quality      int
	Format       string
}

// ViewOutput contains the result of the View operation.
type ViewOutput struct {
	Success       bool          `json:"success"`
	ID            string        `json:"id"`
	FileName      string        `json:"file_name"`
	OriginalBytes int64         `json:"original_bytes"`
	Image         *ImagePayload `json:"image"`
}

// View resolves a stored capture and returns its image bytes, re-encoded
// under the requested policy unless optimization is switched off.
func View(ctx context.Context, deps *Deps, input ViewInput) (*ViewOutput, error) {
	if input.ScreenshotID == "" {
		return nil, errors.NewInvalidRequest("screenshot_id is required")
	}

	// Reject a bad format before touching the filesystem.
	encodeOpts, err := deps.reencodeOptions(input.Quality, input.Format)
	if err != nil {
		return nil, err
	}

	path, err := deps.Index.FindByID(input.ScreenshotID)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	var image *ImagePayload
	if boolOrTrue(input.Optimize) {
		image, err = encodePayload(path, info.Size(), encodeOpts)
	} else {
		image, err = rawPayload(path, info.Size())
	}
	if err != nil {
		return nil, err
	}

	return &ViewOutput{
		Success:       true,
		ID:            input.ScreenshotID,
		FileName:      filepath.Base(path),
		OriginalBytes: info.Size(),
		Image:         image,
	}, nil
}
