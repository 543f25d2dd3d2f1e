// Command mcp is a reference MCP server that exposes volley tools over
// stdio, letting MCP clients discover and call them.
//
// Usage:
//
//	go run ./cmd/mcp
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/volleyhq/volley/mcp"
	"github.com/volleyhq/volley/tool"
)

func main() {
	registry := tool.NewRegistry().Add(
		tool.Func("echo", "Echo back the input text", echoHandler),
		tool.Func("time", "Get the current time", timeHandler),
	)

	if err := mcp.ServeStdio(registry,
		mcp.WithName("volley-mcp-example"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}

// EchoArgs are the arguments for the echo tool.
type EchoArgs struct {
	Text string `json:"text" desc:"The text to echo back" required:"true"`
}

func echoHandler(ctx context.Context, args EchoArgs) (string, error) {
	return args.Text, nil
}

// TimeArgs are the arguments for the time tool.
type TimeArgs struct {
	Format string `json:"format" desc:"Time format: 'rfc3339', 'unix', or 'human'"`
}

func timeHandler(ctx context.Context, args TimeArgs) (string, error) {
	now := time.Now()
	switch strings.ToLower(args.Format) {
	case "rfc3339":
		return now.Format(time.RFC3339), nil
	case "unix":
		return fmt.Sprintf("%d", now.Unix()), nil
	default:
		return now.Format("Monday, January 2, 2006 at 3:04 PM MST"), nil
	}
}
