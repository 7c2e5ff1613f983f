package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"shutter/internal/logging"
	"shutter/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"take_screenshot": {
		def:     takeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTake },
	},
	"list_screenshots": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"get_screenshot_info": {
		def:     infoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInfo },
	},
	"view_screenshot": {
		def:     viewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleView },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Shutter tools registered.
// Tools listed in deps.Cfg.DisabledTools are excluded from registration.
func NewServer(deps *ops.Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"shutter",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps)
	logger := logging.OrNop(deps.Logger)

	disabled := make(map[string]bool)
	for _, name := range deps.Cfg.DisabledTools {
		disabled[name] = true
	}
	for _, name := range ValidateDisabledTools(deps.Cfg.DisabledTools) {
		logger.Warn("unknown disabled tool name", zap.String("tool", name))
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps *ops.Deps, version string) error {
	s := NewServer(deps, version)
	return server.ServeStdio(s)
}
