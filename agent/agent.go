package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	ai "github.com/volleyhq/volley"
	"github.com/volleyhq/volley/event"
	"github.com/volleyhq/volley/responses"
	"github.com/volleyhq/volley/retry"
)

// Transport issues one streaming request per turn. The returned stream is
// aborted by cancelling ctx. *responses.Client implements Transport.
type Transport interface {
	Stream(ctx context.Context, req responses.Request) (responses.Stream, error)
}

// Agent orchestrates turns against a Responses-compatible endpoint.
//
// The transcript and its acknowledgement index are mutated only by the
// running task; the mutex guards reads from other goroutines (History) and
// the cancellation handshake. At most one run is in flight at a time.
type Agent struct {
	transport Transport
	opts      *Options
	ledger    *ResponseLedger

	mu sync.Mutex
	// items is the canonical transcript: staged inputs plus the output
	// items of completed responses. ackIdx marks how much of it the
	// service already knows via previous_response_id chaining.
	items   []ai.Item
	ackIdx  int
	dropped map[string]struct{}

	running   bool
	cancelRun context.CancelFunc
}

// New creates an agent session over the given transport.
func New(transport Transport, opts ...Option) *Agent {
	return &Agent{
		transport: transport,
		opts:      applyOptions(opts...),
		ledger:    NewResponseLedger(),
		dropped:   make(map[string]struct{}),
	}
}

// Ledger returns the session's response ledger.
func (a *Agent) Ledger() *ResponseLedger {
	return a.ledger
}

// History returns a copy of the transcript: every item staged or produced
// by completed responses, with dangling calls already filtered out.
func (a *Agent) History() []ai.Item {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ai.Item, len(a.items))
	copy(out, a.items)
	return out
}

// Cancel aborts the in-flight turn. Safe to call from any goroutine,
// concurrently with stream consumption; calls with no run in flight are
// no-ops. Cancel returns immediately after signalling the transport; the
// consuming task observes the signal and finalizes the turn as cancelled
// without surfacing an error.
func (a *Agent) Cancel() {
	a.mu.Lock()
	cancel := a.cancelRun
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Run executes turns until the model responds without tool calls, the turn
// limit is reached, the run is cancelled, or a permanent transport error
// occurs. Cancellation is not an error: the result carries
// TerminationCancelled and err is nil.
func (a *Agent) Run(ctx context.Context, input ...ai.Item) (*Result, error) {
	if len(input) == 0 {
		return nil, ai.ErrEmptyInput
	}

	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return nil, ErrRunInFlight
	}
	runCtx, cancel := context.WithCancel(ctx)
	a.running = true
	a.cancelRun = cancel
	a.mu.Unlock()

	defer func() {
		cancel()
		a.mu.Lock()
		a.running = false
		a.cancelRun = nil
		a.mu.Unlock()
	}()

	a.opts.Hooks.emitLoading(true)
	defer a.opts.Hooks.emitLoading(false)
	event.Emit(a.opts.Events, event.Event{Type: event.RunStart})

	a.stage(input...)

	result := &Result{}
	for turn := 1; ; turn++ {
		if turn > a.opts.MaxTurns {
			result.Termination = TerminationMaxTurns
			break
		}
		result.Turns = turn

		tr, err := a.runTurn(runCtx, turn)
		if err != nil {
			result.Termination = TerminationError
			result.Error = err
			event.Emit(a.opts.Events, event.Event{Type: event.RunError, Turn: turn, Error: err})
			return result, err
		}

		result.Items = append(result.Items, tr.items...)
		result.TotalUsage.Add(tr.usage)

		if tr.status == TurnCancelled {
			result.Termination = TerminationCancelled
			event.Emit(a.opts.Events, event.Event{Type: event.TurnCancelled, Turn: turn})
			break
		}

		result.ResponseID = tr.responseID
		if tr.text != "" {
			result.Output = tr.text
		}

		if len(tr.calls) == 0 {
			result.Termination = TerminationComplete
			break
		}

		outputs, allRejected := a.processCalls(runCtx, turn, tr.calls)
		result.Items = append(result.Items, outputs...)
		a.stage(outputs...)

		if allRejected {
			result.Termination = TerminationRejected
			break
		}
		if runCtx.Err() != nil {
			// Cancelled while executing tools; outputs stay staged for a
			// later run, their calls completed so the pairing is legal.
			result.Termination = TerminationCancelled
			break
		}
	}

	event.Emit(a.opts.Events, event.Event{
		Type:    event.RunEnd,
		Turn:    result.Turns,
		Message: string(result.Termination),
		Usage:   &result.TotalUsage,
	})
	return result, nil
}

// runTurn performs one turn, retrying transient transport failures with
// backoff. Every attempt reuses the same staged input and gets a fresh
// call tracker; records from failed attempts are dropped, never stubbed.
func (a *Agent) runTurn(ctx context.Context, turn int) (*turnResult, error) {
	event.Emit(a.opts.Events, event.Event{Type: event.TurnStart, Turn: turn})

	tr, err := retry.Do(ctx, a.opts.RetryConfig, func(attempt int) (*turnResult, error) {
		if attempt > 1 {
			a.opts.Logger.Info("retrying turn", "turn", turn, "attempt", attempt)
			event.Emit(a.opts.Events, event.Event{
				Type:        event.Retrying,
				Turn:        turn,
				Attempt:     attempt,
				MaxAttempts: a.opts.RetryConfig.MaxAttempts,
			})
		}
		return a.attemptTurn(ctx, turn)
	})
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled during backoff or stream establishment.
			return &turnResult{status: TurnCancelled}, nil
		}
		return nil, err
	}

	event.Emit(a.opts.Events, event.Event{Type: event.TurnEnd, Turn: turn, Message: string(tr.status)})
	return tr, nil
}

// attemptTurn runs a single request/stream cycle to settlement.
func (a *Agent) attemptTurn(ctx context.Context, turn int) (*turnResult, error) {
	tracker := NewCallTracker(a.opts.Logger)

	stream, err := a.openStream(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return &turnResult{status: TurnCancelled}, nil
		}
		return nil, err
	}
	defer stream.Close()

	res := &turnResult{}
	var received []ai.Item
	var messageID string
	completed := false

	for {
		ev, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return a.settleInterrupted(ctx, tracker, err)
		}

		switch ev.Type {
		case responses.EventTextDelta:
			if messageID == "" {
				messageID = fmt.Sprintf("msg_%d_%d", turn, time.Now().UnixNano())
				event.Emit(a.opts.Events, event.Event{Type: event.MessageStart, Turn: turn, MessageID: messageID})
			}
			event.Emit(a.opts.Events, event.Event{Type: event.MessageDelta, Turn: turn, MessageID: messageID, Delta: ev.Delta})

		case responses.EventItemDone:
			item := *ev.Item
			if item.IsFunctionCall() && !tracker.Observe(item.CallID) {
				continue
			}
			received = append(received, item)
			a.opts.Hooks.emitItem(item)
			event.Emit(a.opts.Events, event.Event{Type: event.ItemDone, Turn: turn, Item: &item})
			if item.Type == ai.ItemTypeMessage {
				res.text = item.Content
				if messageID != "" {
					event.Emit(a.opts.Events, event.Event{Type: event.MessageEnd, Turn: turn, MessageID: messageID})
					messageID = ""
				}
			}

		case responses.EventCompleted:
			tracker.CompleteAll()
			a.ledger.Commit(ev.ResponseID)
			a.opts.Hooks.emitLastResponseID(ev.ResponseID)
			event.Emit(a.opts.Events, event.Event{Type: event.ResponseCompleted, Turn: turn, ResponseID: ev.ResponseID, Usage: ev.Usage})
			res.responseID = ev.ResponseID
			if ev.Usage != nil {
				res.usage = *ev.Usage
			}
			completed = true
		}
	}

	if !completed {
		// The stream ended without a terminal event: either cancellation
		// or a mid-stream disconnect worth retrying.
		return a.settleInterrupted(ctx, tracker,
			ai.NewTransientError("stream ended before terminal completion", 0, nil))
	}

	a.commit(received)
	res.status = TurnCompleted
	res.items = received
	for _, item := range received {
		if call, ok := item.AsToolCall(); ok {
			res.calls = append(res.calls, call)
		}
	}
	return res, nil
}

// settleInterrupted resolves an attempt that never reached the terminal
// completed event. Pending calls are cancelled and recorded so they are
// excluded from all future input; the ledger is untouched. Returns a
// cancelled result when the interrupt was a cancellation, otherwise the
// transport error for retry classification.
func (a *Agent) settleInterrupted(ctx context.Context, tracker *CallTracker, cause error) (*turnResult, error) {
	tracker.CancelAll()
	a.noteDropped(tracker.Dangling())
	if ctx.Err() != nil {
		return &turnResult{status: TurnCancelled}, nil
	}
	return nil, cause
}

// openStream issues the turn's request. If the service no longer knows the
// response id we chained from, the ledger is cleared and the request is
// reissued once with explicit history.
func (a *Agent) openStream(ctx context.Context) (responses.Stream, error) {
	req := a.buildRequest()
	stream, err := a.transport.Stream(ctx, req)
	if err == nil {
		return stream, nil
	}
	if req.PreviousResponseID != "" && errors.Is(err, responses.ErrPreviousResponseNotFound) {
		a.opts.Logger.Warn("previous response id no longer known, resending full history",
			"response_id", req.PreviousResponseID)
		a.ledger.Clear()
		a.mu.Lock()
		a.ackIdx = 0
		a.mu.Unlock()
		return a.transport.Stream(ctx, a.buildRequest())
	}
	return nil, err
}

// buildRequest assembles the request from staged items. With server state
// enabled only the unacknowledged suffix is sent and the request chains via
// previous_response_id; otherwise the full transcript goes out every time.
func (a *Agent) buildRequest() responses.Request {
	reqOpts := ai.ApplyOptions(a.opts.RequestOptions...)

	a.mu.Lock()
	var input []ai.Item
	if a.opts.DisableServerState {
		input = filterDangling(a.items, a.dropped)
	} else {
		input = filterDangling(a.items[a.ackIdx:], a.dropped)
	}
	a.mu.Unlock()

	req := responses.BuildRequest(reqOpts, input)
	if !a.opts.DisableServerState {
		if id, ok := a.ledger.Current(); ok {
			req.PreviousResponseID = id
		}
	}
	return req
}

// stage appends items to the transcript, filtering anything that
// references a dropped call id.
func (a *Agent) stage(items ...ai.Item) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, filterDangling(items, a.dropped)...)
}

// commit publishes a completed attempt's output items into the transcript
// and marks everything up to this point as known to the service.
func (a *Agent) commit(received []ai.Item) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, received...)
	a.ackIdx = len(a.items)
}

// noteDropped records dangling call ids and scrubs the transcript of any
// item referencing them.
func (a *Agent) noteDropped(ids []string) {
	if len(ids) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range ids {
		a.dropped[id] = struct{}{}
	}

	filtered := make([]ai.Item, 0, len(a.items))
	ack := a.ackIdx
	for i, item := range a.items {
		if isDropped(item, a.dropped) {
			if i < a.ackIdx {
				ack--
			}
			continue
		}
		filtered = append(filtered, item)
	}
	a.items = filtered
	a.ackIdx = ack
}

// processCalls runs approval and execution for the turn's calls and builds
// their output items. Every call gets exactly one output: rejections are
// reported back to the model as the call's output, which is a legal pairing
// because the owning response completed.
func (a *Agent) processCalls(ctx context.Context, turn int, calls []ai.ToolCall) (outputs []ai.Item, allRejected bool) {
	rejected := 0

	for _, call := range calls {
		call := call
		event.Emit(a.opts.Events, event.Event{Type: event.ToolCallStart, Turn: turn, ToolCall: &call})
		event.Emit(a.opts.Events, event.Event{Type: event.ToolCallArgs, Turn: turn, ToolCall: &call})

		if a.requiresApproval(call.Name) {
			approved, reason := a.opts.Approver(ctx, call)
			if !approved {
				if reason == "" {
					reason = "Tool call rejected"
				}
				a.opts.Logger.Info("tool call rejected", "tool", call.Name, "reason", reason)
				event.Emit(a.opts.Events, event.Event{Type: event.ToolCallRejected, Turn: turn, ToolCall: &call, Message: reason})
				outputs = append(outputs, a.finishCall(turn, call, reason))
				rejected++
				continue
			}
			event.Emit(a.opts.Events, event.Event{Type: event.ToolCallApproved, Turn: turn, ToolCall: &call})
		}

		outputs = append(outputs, a.finishCall(turn, call, a.executeCall(ctx, call)))
	}

	return outputs, len(calls) > 0 && rejected == len(calls)
}

// finishCall builds the output item for a call and emits its events.
func (a *Agent) finishCall(turn int, call ai.ToolCall, content string) ai.Item {
	out := ai.NewFunctionCallOutput(call.CallID, content)
	a.opts.Hooks.emitItem(out)
	event.Emit(a.opts.Events, event.Event{Type: event.ToolCallEnd, Turn: turn, ToolCall: &call})
	event.Emit(a.opts.Events, event.Event{Type: event.ToolCallResult, Turn: turn, ToolCall: &call, Output: content})
	return out
}

// executeCall resolves the call against the registry.
func (a *Agent) executeCall(ctx context.Context, call ai.ToolCall) string {
	if a.opts.Registry == nil {
		return fmt.Sprintf("tool %q is not available", call.Name)
	}
	a.opts.Logger.Debug("executing tool",
		"call", a.opts.Format(ai.NewFunctionCall(call.CallID, call.Name, call.Arguments)))
	content, err := a.opts.Registry.Execute(ctx, call)
	if err != nil {
		return "error: " + err.Error()
	}
	return content
}

func (a *Agent) requiresApproval(name string) bool {
	if a.opts.Approver == nil {
		return false
	}
	if len(a.opts.ApprovalRequired) == 0 {
		return true
	}
	for _, n := range a.opts.ApprovalRequired {
		if n == name {
			return true
		}
	}
	return false
}
