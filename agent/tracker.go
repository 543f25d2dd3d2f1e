package agent

import (
	"log/slog"
)

// callStatus is the lifecycle state of one observed function call.
type callStatus int

const (
	// callPending: the call was emitted but its owning response has not
	// reached a terminal state.
	callPending callStatus = iota
	// callCompleted: the owning response completed; the call is a
	// legitimate, addressable target for a function call output.
	callCompleted
	// callCancelled: the turn was aborted while the call was still pending.
	callCancelled
)

// CallTracker maintains the set of function calls emitted during one turn
// and their completion status. It lives for exactly one turn; a retried
// attempt gets a fresh tracker.
//
// A single consumer task mutates the tracker, so it is not locked.
type CallTracker struct {
	logger  *slog.Logger
	records map[string]callStatus
	order   []string
}

// NewCallTracker creates an empty tracker. A nil logger discards duplicate
// call warnings.
func NewCallTracker(logger *slog.Logger) *CallTracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CallTracker{
		logger:  logger,
		records: make(map[string]callStatus),
	}
}

// Observe registers a pending record for a newly emitted call id.
// Duplicate emission is tolerated, not fatal: the first registration wins
// and the duplicate is logged and skipped. Returns false for duplicates.
func (t *CallTracker) Observe(callID string) bool {
	if callID == "" {
		return false
	}
	if _, exists := t.records[callID]; exists {
		t.logger.Warn("duplicate function call id observed", "call_id", callID)
		return false
	}
	t.records[callID] = callPending
	t.order = append(t.order, callID)
	return true
}

// CompleteAll transitions every still-pending record to completed.
// Called exactly once, when the stream's terminal completed event arrives.
func (t *CallTracker) CompleteAll() {
	for id, status := range t.records {
		if status == callPending {
			t.records[id] = callCompleted
		}
	}
}

// CancelAll transitions every still-pending record to cancelled.
// Called exactly once, when the turn is aborted before completion.
func (t *CallTracker) CancelAll() {
	for id, status := range t.records {
		if status == callPending {
			t.records[id] = callCancelled
		}
	}
}

// Dangling returns the call ids that must be excluded from any future
// pairing, in observation order: those still pending or cancelled.
func (t *CallTracker) Dangling() []string {
	var ids []string
	for _, id := range t.order {
		if t.records[id] != callCompleted {
			ids = append(ids, id)
		}
	}
	return ids
}

// CompletedIDs returns the call ids eligible for output pairing, in
// observation order.
func (t *CallTracker) CompletedIDs() []string {
	var ids []string
	for _, id := range t.order {
		if t.records[id] == callCompleted {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of observed calls.
func (t *CallTracker) Len() int {
	return len(t.records)
}
