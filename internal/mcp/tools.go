package mcp

import "github.com/mark3labs/mcp-go/mcp"

var takeToolDef = mcp.NewTool("take_screenshot",
	mcp.WithDescription("Capture a screenshot of a web page and store it under a unique id"),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("Target URL to capture"),
	),
	mcp.WithNumber("width",
		mcp.Description("Viewport width in pixels (default 1200)"),
	),
	mcp.WithNumber("height",
		mcp.Description("Viewport height in pixels (default 800)"),
	),
	mcp.WithNumber("delay",
		mcp.Description("Seconds to wait before capturing (default 3)"),
	),
	mcp.WithNumber("timeout",
		mcp.Description("Overall capture timeout in seconds (default 10)"),
	),
	mcp.WithBoolean("include_image",
		mcp.Description("Return the captured image bytes inline (default false)"),
	),
	mcp.WithBoolean("optimize",
		mcp.Description("Re-encode the inline image for transport (default true)"),
	),
	mcp.WithNumber("quality",
		mcp.Description("Re-encode quality 1-100 (default 80)"),
	),
	mcp.WithString("format",
		mcp.Description("Re-encode format: jpeg, png, or webp (default jpeg)"),
	),
)

var listToolDef = mcp.NewTool("list_screenshots",
	mcp.WithDescription("List stored screenshots, newest first"),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of entries to return (default 50)"),
	),
)

var infoToolDef = mcp.NewTool("get_screenshot_info",
	mcp.WithDescription("Get file metadata for a stored screenshot by id"),
	mcp.WithString("screenshot_id",
		mcp.Required(),
		mcp.Description("Screenshot identifier"),
	),
)

var viewToolDef = mcp.NewTool("view_screenshot",
	mcp.WithDescription("Return a stored screenshot's image bytes, optionally re-encoded"),
	mcp.WithString("screenshot_id",
		mcp.Required(),
		mcp.Description("Screenshot identifier"),
	),
	mcp.WithBoolean("optimize",
		mcp.Description("Re-encode for transport (default true)"),
	),
	mcp.WithNumber("quality",
		mcp.Description("Re-encode quality 1-100 (default 80)"),
	),
	mcp.WithString("format",
		mcp.Description("Re-encode format: jpeg, png, or webp (default jpeg)"),
	),
)
