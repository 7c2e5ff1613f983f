package ops

import (
	"context"
	stderrors "errors"
	"time"

	"shutter/internal/errors"
	"shutter/internal/journal"
	"shutter/internal/renderer"
	"shutter/internal/shot"
)

// TakeInput contains parameters for the Take operation.
type TakeInput struct {
	URL            string
	Width          int
	Height         int
	DelaySeconds   int
	TimeoutSeconds int

	// IncludeImage attaches re-encoded image bytes to the response.
	IncludeImage bool
	// Optimize controls re-encoding when IncludeImage is set; default true.
	Optimize *bool
	Quality  int
	Format   string
}

// TakeOutput contains the result of the Take operation.
type TakeOutput struct {
	Success   bool          `json:"success"`
	ID        string        `json:"id"`
	URL       string        `json:"url"`
	Timestamp string        `json:"timestamp"`
	Partition string        `json:"partition"`
	FileName  string        `json:"file_name"`
	FilePath  string        `json:"file_path"`
	SizeBytes int64         `json:"size_bytes"`
	Request   TakeEcho      `json:"request"`
	Image     *ImagePayload `json:"image,omitempty"`
}

// TakeEcho echoes the effective capture parameters back to the caller.
type TakeEcho struct {
	Width          int `json:"width"`
	Height         int `json:"height"`
	DelaySeconds   int `json:"delay_seconds"`
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Take captures a screenshot of the requested URL. Each call allocates a
// fresh identifier, so callers may safely retry a failed call whole.
func Take(ctx context.Context, deps *Deps, input TakeInput) (*TakeOutput, error) {
	if input.URL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}

	// Validate re-encode options before the subprocess runs: a bad format
	// must not cost a renderer invocation.
	var encodeOpts, encodeErr = deps.reencodeOptions(input.Quality, input.Format)
	if input.IncludeImage && encodeErr != nil {
		return nil, encodeErr
	}

	req := renderer.Request{
		ID:             shot.NewID(),
		URL:            input.URL,
		Width:          firstPositive(input.Width, deps.Cfg.DefaultWidth),
		Height:         firstPositive(input.Height, deps.Cfg.DefaultHeight),
		DelaySeconds:   firstPositive(input.DelaySeconds, deps.Cfg.DefaultDelaySeconds),
		TimeoutSeconds: firstPositive(input.TimeoutSeconds, deps.Cfg.DefaultTimeoutSeconds),
	}

	started := time.Now()
	rec, err := deps.Invoker.Capture(ctx, req)
	elapsed := time.Since(started)

	if err != nil {
		deps.journalAttempt(journal.Entry{
			ID:         req.ID,
			URL:        input.URL,
			Status:     journal.StatusFailed,
			ErrorCode:  errorCode(err),
			DurationMS: elapsed.Milliseconds(),
		})
		return nil, err
	}

	deps.journalAttempt(journal.Entry{
		ID:         rec.ID,
		URL:        rec.URL,
		Status:     journal.StatusOK,
		FileName:   rec.FileName,
		SizeBytes:  rec.SizeBytes,
		DurationMS: elapsed.Milliseconds(),
	})

	output := &TakeOutput{
		Success:   true,
		ID:        rec.ID,
		URL:       rec.URL,
		Timestamp: rec.CapturedAt.Format(time.RFC3339),
		Partition: rec.Partition,
		FileName:  rec.FileName,
		FilePath:  rec.FilePath,
		SizeBytes: rec.SizeBytes,
		Request: TakeEcho{
			Width:          req.Width,
			Height:         req.Height,
			DelaySeconds:   req.DelaySeconds,
			TimeoutSeconds: req.TimeoutSeconds,
		},
	}

	if input.IncludeImage {
		var image *ImagePayload
		if boolOrTrue(input.Optimize) {
			image, err = encodePayload(rec.FilePath, rec.SizeBytes, encodeOpts)
		} else {
			image, err = rawPayload(rec.FilePath, rec.SizeBytes)
		}
		if err != nil {
			return nil, err
		}
		output.Image = image
	}

	return output, nil
}

// journalAttempt records a capture attempt when the journal is enabled.
func (d *Deps) journalAttempt(entry journal.Entry) {
	if d.Journal == nil {
		return
	}
	d.Journal.Record(entry)
}

// errorCode extracts the structured code from a capture error, unwrapping
// as needed.
func errorCode(err error) string {
	var sErr *errors.ShutterError
	if stderrors.As(err, &sErr) {
		return string(sErr.Code)
	}
	return string(errors.ErrInternal)
}

func firstPositive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func boolOrTrue(b *bool) bool {
	return b == nil || *b
}
