package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Shutter error code.
type ErrorCode string

const (
	ErrRendererNotFound  ErrorCode = "RENDERER_NOT_FOUND" // 503
	ErrRendererFailed    ErrorCode = "RENDERER_FAILED"    // 502
	ErrNoOutput          ErrorCode = "NO_OUTPUT"          // 502
	ErrRenameFailed      ErrorCode = "RENAME_FAILED"      // 409
	ErrUnreadableImage   ErrorCode = "UNREADABLE_IMAGE"   // 422
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT" // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// ShutterError represents a structured error with code, status, and details.
type ShutterError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ShutterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewRendererNotFound creates a 503 error for when no renderer binary responds.
// This is a configuration-level fault: it blocks every capture until resolved.
func NewRendererNotFound(candidates []string) *ShutterError {
	return &ShutterError{
		Code:    ErrRendererNotFound,
		Status:  503,
		Message: "no screenshot renderer found in any candidate location",
		Details: map[string]any{"candidates": candidates},
	}
}

// NewRendererFailed creates a 502 error for a renderer subprocess failure.
// stderr is expected to be pre-truncated by the caller.
func NewRendererFailed(stderr string, cause error) *ShutterError {
	msg := "renderer execution failed"
	if cause != nil {
		msg = fmt.Sprintf("renderer execution failed: %v", cause)
	}
	e := &ShutterError{
		Code:    ErrRendererFailed,
		Status:  502,
		Message: msg,
	}
	if stderr != "" {
		e.Details = map[string]any{"stderr": stderr}
	}
	return e
}

// NewNoOutput creates a 502 error for when the renderer reported success
// but no raster file appeared in the partition directory.
func NewNoOutput(partition string) *ShutterError {
	return &ShutterError{
		Code:    ErrNoOutput,
		Status:  502,
		Message: fmt.Sprintf("renderer produced no output in partition %s", partition),
		Details: map[string]any{"partition": partition},
	}
}

// NewRenameFailed creates a 409 error for when the renderer output could not
// be claimed under its identifier.
func NewRenameFailed(from, to string, cause error) *ShutterError {
	return &ShutterError{
		Code:    ErrRenameFailed,
		Status:  409,
		Message: fmt.Sprintf("could not claim renderer output: %v", cause),
		Details: map[string]any{"from": from, "to": to},
	}
}

// NewUnreadableImage creates a 422 error for a missing or undecodable raster.
func NewUnreadableImage(path string, cause error) *ShutterError {
	msg := fmt.Sprintf("image is missing or not decodable: %s", path)
	if cause != nil {
		msg = fmt.Sprintf("image is missing or not decodable: %s: %v", path, cause)
	}
	return &ShutterError{
		Code:    ErrUnreadableImage,
		Status:  422,
		Message: msg,
		Details: map[string]any{"path": path},
	}
}

// NewUnsupportedFormat creates a 400 error for a format outside the
// enumerated set.
func NewUnsupportedFormat(format string) *ShutterError {
	return &ShutterError{
		Code:    ErrUnsupportedFormat,
		Status:  400,
		Message: fmt.Sprintf("unsupported image format %q (expected jpeg, png, or webp)", format),
		Details: map[string]any{"format": format},
	}
}

// NewNotFound creates a 404 error for when no stored capture carries the id.
func NewNotFound(id string) *ShutterError {
	return &ShutterError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("screenshot not found: %s", id),
		Details: map[string]any{"screenshot_id": id},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ShutterError {
	return &ShutterError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ShutterError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ShutterError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a ShutterError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *ShutterError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}
