package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	ai "github.com/volleyhq/volley"
)

// ApprovalDecision is a user's decision on a pending tool call.
type ApprovalDecision struct {
	CallID   string // id of the tool call being decided
	Approved bool
	Reason   string // rejection reason, empty if approved
}

// ApprovalBroker routes async approval decisions to waiting tool calls.
// A frontend submits decisions through Decide while the agent blocks inside
// the broker's Approver.
//
// Usage:
//
//	broker := agent.NewApprovalBroker()
//	go func() {
//	    for decision := range frontendDecisions {
//	        broker.Decide(decision)
//	    }
//	}()
//	session := agent.New(client, agent.WithApprover(broker.Approver()))
type ApprovalBroker struct {
	mu       sync.Mutex
	pending  map[string]chan ApprovalDecision
	timeout  time.Duration
	onSubmit func(call ai.ToolCall)
}

// NewApprovalBroker creates a broker with a 5 minute decision timeout.
func NewApprovalBroker(opts ...ApprovalBrokerOption) *ApprovalBroker {
	b := &ApprovalBroker{
		pending: make(map[string]chan ApprovalDecision),
		timeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ApprovalBrokerOption configures an ApprovalBroker.
type ApprovalBrokerOption func(*ApprovalBroker)

// WithApprovalTimeout sets the timeout for waiting on approval decisions.
func WithApprovalTimeout(d time.Duration) ApprovalBrokerOption {
	return func(b *ApprovalBroker) {
		b.timeout = d
	}
}

// WithOnSubmit sets a callback invoked when an approval request is
// submitted, for surfacing the pending call to a frontend.
func WithOnSubmit(fn func(call ai.ToolCall)) ApprovalBrokerOption {
	return func(b *ApprovalBroker) {
		b.onSubmit = fn
	}
}

// Approver returns an ApproverFunc for use with WithApprover. The returned
// function blocks until a decision arrives, the context is cancelled, or
// the broker's timeout elapses.
func (b *ApprovalBroker) Approver() ApproverFunc {
	return func(ctx context.Context, call ai.ToolCall) (bool, string) {
		return b.waitForDecision(ctx, call)
	}
}

// Decide routes a decision to the waiting approval request for the call id.
// Returns an error if no approval is pending for that id.
func (b *ApprovalBroker) Decide(decision ApprovalDecision) error {
	b.mu.Lock()
	ch, ok := b.pending[decision.CallID]
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("no pending approval for tool call %q", decision.CallID)
	}

	select {
	case ch <- decision:
	default:
	}

	return nil
}

// Approve is a convenience method to approve a tool call.
func (b *ApprovalBroker) Approve(callID string) error {
	return b.Decide(ApprovalDecision{
		CallID:   callID,
		Approved: true,
	})
}

// Reject is a convenience method to reject a tool call.
func (b *ApprovalBroker) Reject(callID, reason string) error {
	return b.Decide(ApprovalDecision{
		CallID:   callID,
		Approved: false,
		Reason:   reason,
	})
}

// PendingCount returns the number of pending approval requests.
func (b *ApprovalBroker) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// HasPending reports whether any approval requests are pending.
func (b *ApprovalBroker) HasPending() bool {
	return b.PendingCount() > 0
}

func (b *ApprovalBroker) waitForDecision(ctx context.Context, call ai.ToolCall) (bool, string) {
	ch := make(chan ApprovalDecision, 1)

	b.mu.Lock()
	b.pending[call.CallID] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, call.CallID)
		close(ch)
		b.mu.Unlock()
	}()

	if b.onSubmit != nil {
		b.onSubmit(call)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	select {
	case decision := <-ch:
		return decision.Approved, decision.Reason
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return false, "approval cancelled"
		}
		return false, "approval timeout"
	}
}
