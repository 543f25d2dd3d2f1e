// Package volley manages turns of a conversational, tool-using session
// against a streaming Responses-compatible completion API.
//
// A turn sends an ordered list of conversation items (messages, function
// calls, function call outputs) to the service and consumes a stream of
// incremental events describing the model's response. The hard part is
// correlation: the protocol requires every function call referenced in
// history to have a matching output, but a call is only addressable once the
// response that produced it reached a terminal completed state. Cancellation,
// timeouts, and mid-stream disconnects interrupt turns after calls were
// emitted but before completion; volley tracks each call's status and drops
// dangling calls from future input rather than fabricating outputs the
// service would reject.
//
// # Packages
//
//   - [github.com/volleyhq/volley/agent]: the turn orchestrator, call
//     tracker, response ledger, and cancellation control
//   - [github.com/volleyhq/volley/responses]: the streaming wire client
//   - [github.com/volleyhq/volley/retry]: bounded exponential backoff for
//     transient transport errors
//   - [github.com/volleyhq/volley/tool]: tool registry and handlers
//   - [github.com/volleyhq/volley/event]: unified session event types
//   - [github.com/volleyhq/volley/agui]: AG-UI protocol event mapping
//   - [github.com/volleyhq/volley/mcp]: MCP tool integration
//
// # Basic Usage
//
// Drive a session with a registry of tools:
//
//	client := responses.New(os.Getenv("OPENAI_API_KEY"))
//
//	registry := tool.NewRegistry()
//	registry.MustRegister(volley.Tool{
//	    Name:        "get_weather",
//	    Description: "Get current weather for a location",
//	    Parameters:  json.RawMessage(`{"type":"object","properties":{"location":{"type":"string"}}}`),
//	}, weatherHandler)
//
//	a := agent.New(client,
//	    agent.WithModel("gpt-4o"),
//	    agent.WithRegistry(registry),
//	)
//
//	result, err := a.Run(ctx, volley.NewUserMessage("What's the weather in Paris?"))
//
// # Cancellation
//
// Cancel aborts the in-flight transport stream from any goroutine. The turn
// resolves with [agent.TerminationCancelled] and no error; function calls
// that never reached completion are excluded from the next turn's input:
//
//	go func() {
//	    <-interrupt
//	    a.Cancel()
//	}()
//
// # Error Handling
//
// Transport failures are categorized. Transient errors (timeouts, resets,
// 429, 5xx) are retried with bounded exponential backoff; permanent errors
// (auth, malformed request, quota) fail the turn and surface to the caller.
package volley
