package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	ai "github.com/volleyhq/volley"
	"github.com/volleyhq/volley/tool"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server that exposes the tools of a
// tool.Registry. Each registered tool becomes discoverable and callable by
// MCP clients.
//
// Example:
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("weather", "Get weather", weatherHandler),
//	)
//
//	mcpServer := mcp.NewServer(registry,
//	    mcp.WithName("my-tools"),
//	    mcp.WithVersion("1.0.0"),
//	)
//
//	server.ServeStdio(mcpServer)
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "volley-mcp-server",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, t := range registry.Tools() {
		handler, ok := registry.Get(t.Name)
		if !ok || handler == nil {
			continue
		}
		s.AddTool(ToMCPTool(t), createMCPHandler(t.Name, handler))
	}

	return s
}

// createMCPHandler wraps a tool.Handler as an MCP tool handler.
func createMCPHandler(toolName string, handler tool.Handler) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsJSON := "{}"
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			argsJSON = string(data)
		}

		// MCP has no call id of its own
		call := ai.ToolCall{
			Name:      toolName,
			Arguments: argsJSON,
		}

		result, err := handler(ctx, call)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(result), nil
	}
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
// This is the standard transport for MCP servers invoked as subprocesses.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	s := NewServer(registry, opts...)
	return server.ServeStdio(s)
}
