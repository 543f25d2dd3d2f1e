package tool

import (
	"context"

	ai "github.com/volleyhq/volley"
)

// Handler executes a tool call and returns its result content.
// The context supports cancellation and timeout; the call carries the tool
// name, call id, and arguments as a JSON string.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler executes a tool call with arguments already unmarshaled
// into T from the call's JSON arguments.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)
