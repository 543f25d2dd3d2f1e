package agent

import "sync"

// ResponseLedger records the identifier of the most recent fully completed
// response. It is session-scoped: created when the agent is constructed and
// shared by every turn.
//
// Only the orchestrator's completion path commits; cancellation and failure
// never touch the ledger, so an interrupted turn leaves it exactly as the
// prior completed turn left it. The lock guards reads from other goroutines
// (hooks, UI); there is a single writer by construction.
type ResponseLedger struct {
	mu sync.Mutex
	id string
}

// NewResponseLedger creates an empty ledger.
func NewResponseLedger() *ResponseLedger {
	return &ResponseLedger{}
}

// Current returns the last committed response id. The second return is
// false when no response has completed yet, in which case the next request
// cannot chain and must carry an explicit item list.
func (l *ResponseLedger) Current() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.id, l.id != ""
}

// Commit overwrites the stored id. Called only when a terminal completed
// event is observed.
func (l *ResponseLedger) Commit(id string) {
	if id == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.id = id
}

// Clear forgets the stored id, forcing the next request to carry explicit
// input. Used when the service reports the chained id is no longer known.
func (l *ResponseLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.id = ""
}
