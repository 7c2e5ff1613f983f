package ops

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"shutter/internal/errors"
	"shutter/internal/journal"
	"shutter/internal/shot"
)

// InfoInput contains parameters for the Info operation.
type InfoInput struct {
	ScreenshotID string
}

// InfoOutput contains the result of the Info operation.
type InfoOutput struct {
	Success        bool           `json:"success"`
	ID             string         `json:"id"`
	FileName       string         `json:"file_name"`
	FilePath       string         `json:"file_path"`
	Partition      string         `json:"partition"`
	OriginalName   string         `json:"original_name,omitempty"`
	SizeBytes      int64          `json:"size_bytes"`
	ModifiedAt     string         `json:"modified_at"`
	RendererReport string         `json:"renderer_report"`
	Journal        *journal.Entry `json:"journal,omitempty"`
}

// Info resolves a capture by id and stats it. The renderer report and the
// capture journal are cross-referenced best-effort; either may be absent.
func Info(ctx context.Context, deps *Deps, input InfoInput) (*InfoOutput, error) {
	if input.ScreenshotID == "" {
		return nil, errors.NewInvalidRequest("screenshot_id is required")
	}

	path, err := deps.Index.FindByID(input.ScreenshotID)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	fileName := filepath.Base(path)
	output := &InfoOutput{
		Success:        true,
		ID:             input.ScreenshotID,
		FileName:       fileName,
		FilePath:       path,
		Partition:      filepath.Base(filepath.Dir(path)),
		SizeBytes:      info.Size(),
		ModifiedAt:     info.ModTime().Format(time.RFC3339),
		RendererReport: deps.Invoker.Report(ctx),
	}
	if _, original, ok := shot.ParseFileName(fileName); ok {
		output.OriginalName = original
	}
	if deps.Journal != nil {
		output.Journal = deps.Journal.Lookup(input.ScreenshotID)
	}

	return output, nil
}
