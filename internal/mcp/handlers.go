package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"shutter/internal/errors"
	"shutter/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps *ops.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *ops.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Request types for each tool

// TakeRequest represents the arguments for take_screenshot.
type TakeRequest struct {
	URL          string `json:"url"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Delay        int    `json:"delay,omitempty"`
	Timeout      int    `json:"timeout,omitempty"`
	IncludeImage bool   `json:"include_image,omitempty"`
	Optimize     *bool  `json:"optimize,omitempty"`
	Quality      int    `json:"quality,omitempty"`
	Format       string `json:"format,omitempty"`
}

// ListRequest represents the arguments for list_screenshots.
type ListRequest struct {
	Limit int `json:"limit,omitempty"`
}

// InfoRequest represents the arguments for get_screenshot_info.
type InfoRequest struct {
	ScreenshotID string `json:"screenshot_id"`
}

// ViewRequest represents the arguments for view_screenshot.
type ViewRequest struct {
	ScreenshotID string `json:"screenshot_id"`
	Optimize     *bool  `json:"optimize,omitempty"`
	Quality      int    `json:"quality,omitempty"`
	Format       string `json:"format,omitempty"`
}

// Handler implementations

// HandleTake handles the take_screenshot tool call.
func (h *Handlers) HandleTake(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TakeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Take(ctx, h.deps, ops.TakeInput{
		URL:            input.URL,
		Width:          input.Width,
		Height:         input.Height,
		DelaySeconds:   input.Delay,
		TimeoutSeconds: input.Timeout,
		IncludeImage:   input.IncludeImage,
		Optimize:       input.Optimize,
		Quality:        input.Quality,
		Format:         input.Format,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return imageResult(result, result.Image)
}

// HandleList handles the list_screenshots tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.deps, ops.ListInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleInfo handles the get_screenshot_info tool call.
func (h *Handlers) HandleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InfoRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Info(ctx, h.deps, ops.InfoInput{ScreenshotID: input.ScreenshotID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleView handles the view_screenshot tool call.
func (h *Handlers) HandleView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ViewRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.View(ctx, h.deps, ops.ViewInput{
		ScreenshotID: input.ScreenshotID,
		Optimize:     input.Optimize,
		Quality:      input.Quality,
		Format:       input.Format,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return imageResult(result, result.Image)
}

// Result helpers

// errorResult creates an MCP error result from any error. The payload always
// carries success:false so protocol clients never see a raw fault. Internal
// error details are not expanded beyond the structured fields.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.ShutterError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		// Internal details may carry paths or subprocess output internals
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{
			"success": false,
			"error":   errorObj,
		}
	} else {
		payload = map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

// imageResult creates a success result carrying JSON metadata plus, when
// image bytes are present, an MCP image content part.
func imageResult(data any, image *ops.ImagePayload) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	parts := []mcp.Content{
		mcp.TextContent{Type: "text", Text: string(content)},
	}
	if image != nil && len(image.Data) > 0 {
		parts = append(parts, mcp.ImageContent{
			Type:     "image",
			Data:     base64.StdEncoding.EncodeToString(image.Data),
			MIMEType: image.MIMEType,
		})
	}

	return &mcp.CallToolResult{Content: parts}, nil
}
