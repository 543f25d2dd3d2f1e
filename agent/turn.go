package agent

import (
	"errors"

	ai "github.com/volleyhq/volley"
)

// ErrRunInFlight is returned by Run when a previous run has not settled.
// A new turn cannot begin building its request until the prior turn has
// fully settled into a terminal state.
var ErrRunInFlight = errors.New("a run is already in flight")

// TurnStatus is the terminal state of one request/response cycle.
type TurnStatus string

const (
	// TurnCompleted: the terminal completed event was seen and the ledger
	// committed. Calls emitted this turn are eligible for output pairing.
	TurnCompleted TurnStatus = "completed"

	// TurnCancelled: the turn was aborted before completion. Pending calls
	// were cancelled and are dropped from future input.
	TurnCancelled TurnStatus = "cancelled"

	// TurnFailed: the transport failed permanently. The ledger is untouched
	// and pending calls are dropped.
	TurnFailed TurnStatus = "failed"
)

// TerminationReason explains why a run stopped.
type TerminationReason string

const (
	// TerminationComplete: the model produced a response with no tool calls.
	TerminationComplete TerminationReason = "complete"

	// TerminationCancelled: the run was cancelled.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationMaxTurns: the turn limit was reached.
	TerminationMaxTurns TerminationReason = "max_turns"

	// TerminationRejected: every tool call in the last turn was rejected.
	TerminationRejected TerminationReason = "rejected"

	// TerminationError: a permanent transport error ended the run.
	TerminationError TerminationReason = "error"
)

// Result is the outcome of one run.
type Result struct {
	// Output is the final assistant message text, if any.
	Output string

	// Items contains every finalized item observed during the run, in
	// arrival order: messages, function calls, and function call outputs.
	Items []ai.Item

	// ResponseID is the id of the last completed response, empty if no
	// turn completed.
	ResponseID string

	// Turns is the number of request/response cycles performed.
	Turns int

	// TotalUsage accumulates token usage across completed turns.
	TotalUsage ai.Usage

	// Termination explains why the run stopped.
	Termination TerminationReason

	// Error is set when Termination is TerminationError.
	Error error
}

// turnResult is the settled outcome of one turn.
type turnResult struct {
	status     TurnStatus
	items      []ai.Item
	calls      []ai.ToolCall
	responseID string
	text       string
	usage      ai.Usage
}
