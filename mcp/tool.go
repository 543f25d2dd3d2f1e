// Package mcp provides Model Context Protocol integration.
//
// The package covers both directions:
//
//   - Server: expose a [tool.Registry] as an MCP server so MCP clients can
//     discover and call your tools.
//   - Client: connect to MCP servers and use their tools through
//     [RemoteRegistry], which plugs into the agent as a tool source.
//
// # Exposing Tools as an MCP Server
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("weather", "Get weather", weatherHandler),
//	)
//
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
//
// # Consuming MCP Servers
//
//	remote, err := mcp.NewRemoteRegistry(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	registry := tool.NewRegistry()
//	for _, t := range remote.Tools() {
//	    registry.MustRegister(t, remote.Handler(t.Name))
//	}
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/volleyhq/volley"
)

// ToMCPTool converts a Tool to an MCP Tool. The Parameters JSON schema is
// used as the MCP tool's RawInputSchema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// ToMCPTools converts a slice of Tools to MCP Tools.
func ToMCPTools(tools []ai.Tool) []mcp.Tool {
	result := make([]mcp.Tool, len(tools))
	for i, t := range tools {
		result[i] = ToMCPTool(t)
	}
	return result
}

// FromMCPTool converts an MCP Tool to a Tool. It extracts the JSON schema
// from either RawInputSchema or the structured InputSchema.
func FromMCPTool(t mcp.Tool) ai.Tool {
	var schema json.RawMessage

	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else {
		data, err := json.Marshal(t.InputSchema)
		if err == nil {
			schema = data
		}
	}

	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// FromMCPTools converts a slice of MCP Tools to Tools.
func FromMCPTools(tools []mcp.Tool) []ai.Tool {
	result := make([]ai.Tool, len(tools))
	for i, t := range tools {
		result[i] = FromMCPTool(t)
	}
	return result
}

// ToMCPCallToolRequest converts a ToolCall to an MCP CallToolRequest.
func ToMCPCallToolRequest(call ai.ToolCall) mcp.CallToolRequest {
	var args any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			// Not valid JSON, pass the string through
			args = call.Arguments
		}
	}

	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// textFromResult concatenates the text content of an MCP tool result.
// Non-text content and structured content are rendered as JSON.
func textFromResult(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var textParts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			textParts = append(textParts, content.Text)
		case *mcp.TextContent:
			textParts = append(textParts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				textParts = append(textParts, string(data))
			}
		}
	}

	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			textParts = append(textParts, string(data))
		}
	}

	return strings.Join(textParts, "\n")
}
