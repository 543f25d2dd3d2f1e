// Package event provides a unified event system for observing streaming
// turns. One event type serves the agent loop, the wire client, and the
// AG-UI bridge so consumers handle a single stream.
package event

import (
	"time"

	ai "github.com/volleyhq/volley"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a run completes.
	RunEnd Type = "run_end"

	// RunError fires when an unrecoverable error ends the run.
	RunError Type = "run_error"
)

// Turn lifecycle events
const (
	// TurnStart fires when a turn's request is issued.
	TurnStart Type = "turn_start"

	// TurnEnd fires when a turn settles (completed, cancelled, or failed).
	TurnEnd Type = "turn_end"

	// TurnCancelled fires when a turn is cancelled before completion.
	TurnCancelled Type = "turn_cancelled"
)

// Message lifecycle events
const (
	// MessageStart fires when an assistant message begins.
	MessageStart Type = "message_start"

	// MessageDelta fires for each streaming token.
	MessageDelta Type = "message_delta"

	// MessageEnd fires when an assistant message completes.
	MessageEnd Type = "message_end"
)

// Item and response events
const (
	// ItemDone fires when a finalized item arrives on the stream.
	ItemDone Type = "item_done"

	// ResponseCompleted fires when the terminal completed event is observed,
	// carrying the response identifier.
	ResponseCompleted Type = "response_completed"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires when a tool call is observed (contains tool name).
	ToolCallStart Type = "tool_call_start"

	// ToolCallArgs fires with the tool call arguments.
	ToolCallArgs Type = "tool_call_args"

	// ToolCallEnd fires when tool call transmission is complete.
	ToolCallEnd Type = "tool_call_end"

	// ToolCallResult fires with the tool execution result.
	ToolCallResult Type = "tool_call_result"
)

// Tool approval events
const (
	// ToolCallApproved fires when a tool call is approved (human-in-the-loop).
	ToolCallApproved Type = "tool_call_approved"

	// ToolCallRejected fires when a tool call is rejected.
	ToolCallRejected Type = "tool_call_rejected"
)

// Retry events
const (
	// Retrying fires before sleeping between transport attempts.
	Retrying Type = "retrying"
)

// Event represents an observable occurrence during a run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// Turn is the turn number (1-indexed) the event belongs to.
	Turn int

	// MessageID identifies the message for Start/Delta/End correlation.
	MessageID string

	// Delta contains streaming content for MessageDelta events.
	Delta string

	// Item contains the finalized item for ItemDone events.
	Item *ai.Item

	// ResponseID carries the response identifier for ResponseCompleted events.
	ResponseID string

	// ToolCall contains the tool call for tool-related events.
	ToolCall *ai.ToolCall

	// Output contains the result for ToolCallResult events.
	Output string

	// Usage contains token accounting when present on ResponseCompleted
	// and RunEnd events.
	Usage *ai.Usage

	// Error contains the error for RunError events.
	Error error

	// Message contains additional context (e.g., rejection reason,
	// termination reason).
	Message string

	// Attempt and MaxAttempts describe retry progress for Retrying events.
	Attempt     int
	MaxAttempts int

	// Delay is the backoff duration before the next attempt (Retrying).
	Delay time.Duration

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
// A nil channel is ignored, so event emission never affects correctness.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
