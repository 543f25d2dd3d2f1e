package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ai "github.com/volleyhq/volley"
	"github.com/volleyhq/volley/tool"
)

func TestToMCPTool(t *testing.T) {
	t.Run("converts tool to MCP tool", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}}}`)
		src := ai.Tool{
			Name:        "greet",
			Description: "Greet someone",
			Parameters:  schema,
		}

		mcpTool := ToMCPTool(src)

		assert.Equal(t, "greet", mcpTool.Name)
		assert.Equal(t, "Greet someone", mcpTool.Description)
		assert.Equal(t, schema, mcpTool.RawInputSchema)
	})

	t.Run("handles nil parameters", func(t *testing.T) {
		src := ai.Tool{
			Name:        "simple",
			Description: "Simple tool",
			Parameters:  nil,
		}

		mcpTool := ToMCPTool(src)

		assert.Equal(t, "simple", mcpTool.Name)
		assert.Equal(t, "Simple tool", mcpTool.Description)
	})
}

func TestToMCPTools(t *testing.T) {
	tools := []ai.Tool{
		{Name: "tool1", Description: "First tool"},
		{Name: "tool2", Description: "Second tool"},
	}

	mcpTools := ToMCPTools(tools)

	assert.Len(t, mcpTools, 2)
	assert.Equal(t, "tool1", mcpTools[0].Name)
	assert.Equal(t, "tool2", mcpTools[1].Name)
}

func TestFromMCPTool(t *testing.T) {
	t.Run("converts MCP tool with raw schema", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object"}`)
		mcpTool := mcp.NewToolWithRawSchema("weather", "Get weather", schema)

		got := FromMCPTool(mcpTool)

		assert.Equal(t, "weather", got.Name)
		assert.Equal(t, "Get weather", got.Description)
		assert.JSONEq(t, `{"type":"object"}`, string(got.Parameters))
	})

	t.Run("converts MCP tool with structured schema", func(t *testing.T) {
		mcpTool := mcp.NewTool("search",
			mcp.WithDescription("Search the web"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		)

		got := FromMCPTool(mcpTool)

		assert.Equal(t, "search", got.Name)
		assert.Equal(t, "Search the web", got.Description)
		assert.NotNil(t, got.Parameters)
	})
}

func TestToMCPCallToolRequest(t *testing.T) {
	t.Run("converts tool call to MCP request", func(t *testing.T) {
		call := ai.ToolCall{
			CallID:    "call_123",
			Name:      "calculate",
			Arguments: `{"a": 10, "b": 5}`,
		}

		req := ToMCPCallToolRequest(call)

		assert.Equal(t, "calculate", req.Params.Name)
		args, ok := req.Params.Arguments.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(10), args["a"])
		assert.Equal(t, float64(5), args["b"])
	})

	t.Run("handles empty arguments", func(t *testing.T) {
		call := ai.ToolCall{
			CallID:    "call_456",
			Name:      "noargs",
			Arguments: "",
		}

		req := ToMCPCallToolRequest(call)

		assert.Equal(t, "noargs", req.Params.Name)
		assert.Nil(t, req.Params.Arguments)
	})
}

func TestTextFromResult(t *testing.T) {
	t.Run("extracts text content", func(t *testing.T) {
		result := mcp.NewToolResultText("Hello, World!")
		assert.Equal(t, "Hello, World!", textFromResult(result))
	})

	t.Run("handles nil result", func(t *testing.T) {
		assert.Equal(t, "", textFromResult(nil))
	})
}

func initClient(t *testing.T, ctx context.Context, c *client.Client) {
	t.Helper()
	require.NoError(t, c.Start(ctx))
	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err)
}

// TestServerIntegration exercises the server with an in-process MCP client.
func TestServerIntegration(t *testing.T) {
	t.Run("exposes tools from registry", func(t *testing.T) {
		registry := tool.NewRegistry().Add(
			tool.Func("echo", "Echo text", func(ctx context.Context, args struct {
				Text string `json:"text"`
			}) (string, error) {
				return args.Text, nil
			}),
			tool.Func("add", "Add numbers", func(ctx context.Context, args struct {
				A int `json:"a"`
				B int `json:"b"`
			}) (string, error) {
				data, err := json.Marshal(args.A + args.B)
				return string(data), err
			}),
		)

		server := NewServer(registry,
			WithName("test-server"),
			WithVersion("1.0.0"),
		)

		c, err := client.NewInProcessClient(server)
		require.NoError(t, err)

		ctx := context.Background()
		initClient(t, ctx, c)
		defer c.Close()

		result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		require.NoError(t, err)

		assert.Len(t, result.Tools, 2)

		names := make([]string, len(result.Tools))
		for i, tl := range result.Tools {
			names[i] = tl.Name
		}
		assert.Contains(t, names, "echo")
		assert.Contains(t, names, "add")
	})

	t.Run("calls tools and returns results", func(t *testing.T) {
		registry := tool.NewRegistry().Add(
			tool.Func("greet", "Greet someone", func(ctx context.Context, args struct {
				Name string `json:"name"`
			}) (string, error) {
				return "Hello, " + args.Name + "!", nil
			}),
		)

		server := NewServer(registry)
		c, err := client.NewInProcessClient(server)
		require.NoError(t, err)

		ctx := context.Background()
		initClient(t, ctx, c)
		defer c.Close()

		result, err := c.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "greet",
				Arguments: map[string]any{
					"name": "World",
				},
			},
		})
		require.NoError(t, err)

		assert.False(t, result.IsError)
		require.Len(t, result.Content, 1)
		textContent, ok := result.Content[0].(mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "Hello, World!", textContent.Text)
	})

	t.Run("handles tool errors gracefully", func(t *testing.T) {
		registry := tool.NewRegistry().Add(
			tool.Func("fail", "Always fails", func(ctx context.Context, args struct{}) (string, error) {
				return "", assert.AnError
			}),
		)

		server := NewServer(registry)
		c, err := client.NewInProcessClient(server)
		require.NoError(t, err)

		ctx := context.Background()
		initClient(t, ctx, c)
		defer c.Close()

		result, err := c.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "fail",
				Arguments: map[string]any{},
			},
		})
		require.NoError(t, err)

		assert.True(t, result.IsError)
	})
}

// TestRemoteRegistryIntegration exercises RemoteRegistry against an
// in-process server.
func TestRemoteRegistryIntegration(t *testing.T) {
	t.Run("creates registry from in-process server", func(t *testing.T) {
		sourceRegistry := tool.NewRegistry().Add(
			tool.Func("ping", "Ping pong", func(ctx context.Context, args struct{}) (string, error) {
				return "pong", nil
			}),
			tool.Func("echo", "Echo text", func(ctx context.Context, args struct {
				Text string `json:"text"`
			}) (string, error) {
				return args.Text, nil
			}),
		)

		server := NewServer(sourceRegistry)
		c, err := client.NewInProcessClient(server)
		require.NoError(t, err)

		ctx := context.Background()
		remote, err := NewRemoteRegistryFromClient(ctx, c)
		require.NoError(t, err)
		defer remote.Close()

		assert.Equal(t, 2, remote.Len())
		assert.True(t, remote.Has("ping"))
		assert.True(t, remote.Has("echo"))

		pingTool, ok := remote.GetTool("ping")
		assert.True(t, ok)
		assert.Equal(t, "ping", pingTool.Name)
		assert.Equal(t, "Ping pong", pingTool.Description)
	})

	t.Run("executes remote tools", func(t *testing.T) {
		sourceRegistry := tool.NewRegistry().Add(
			tool.Func("add", "Add numbers", func(ctx context.Context, args struct {
				A int `json:"a"`
				B int `json:"b"`
			}) (string, error) {
				data, err := json.Marshal(args.A + args.B)
				return string(data), err
			}),
		)

		server := NewServer(sourceRegistry)
		c, err := client.NewInProcessClient(server)
		require.NoError(t, err)

		ctx := context.Background()
		remote, err := NewRemoteRegistryFromClient(ctx, c)
		require.NoError(t, err)
		defer remote.Close()

		content, err := remote.Execute(ctx, ai.ToolCall{
			CallID:    "call_123",
			Name:      "add",
			Arguments: `{"a": 10, "b": 5}`,
		})
		require.NoError(t, err)
		assert.Equal(t, "15", content)
	})

	t.Run("reports unknown tools", func(t *testing.T) {
		sourceRegistry := tool.NewRegistry().Add(
			tool.Func("known", "Known tool", func(ctx context.Context, args struct{}) (string, error) {
				return "ok", nil
			}),
		)

		server := NewServer(sourceRegistry)
		c, err := client.NewInProcessClient(server)
		require.NoError(t, err)

		ctx := context.Background()
		remote, err := NewRemoteRegistryFromClient(ctx, c)
		require.NoError(t, err)
		defer remote.Close()

		_, err = remote.Execute(ctx, ai.ToolCall{
			CallID:    "call_404",
			Name:      "missing",
			Arguments: "{}",
		})
		assert.Error(t, err)
	})

	t.Run("refreshes tool list", func(t *testing.T) {
		sourceRegistry := tool.NewRegistry().Add(
			tool.Func("initial", "Initial tool", func(ctx context.Context, args struct{}) (string, error) {
				return "ok", nil
			}),
		)

		server := NewServer(sourceRegistry)
		c, err := client.NewInProcessClient(server)
		require.NoError(t, err)

		ctx := context.Background()
		remote, err := NewRemoteRegistryFromClient(ctx, c)
		require.NoError(t, err)
		defer remote.Close()

		assert.Equal(t, 1, remote.Len())

		require.NoError(t, remote.Refresh(ctx))
		assert.Equal(t, 1, remote.Len())
	})
}
