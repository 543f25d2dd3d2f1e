package agent

import (
	ai "github.com/volleyhq/volley"
)

// Hooks are collaborator callbacks invoked by the orchestrator as a run
// progresses. All fields are optional; a nil hook is skipped and absence
// never affects correctness.
type Hooks struct {
	// OnItem is invoked for each finalized item (message, function call,
	// or function call output) as it becomes known.
	OnItem func(ai.Item)

	// OnLoading reports whether a turn is in flight, for UI state.
	OnLoading func(bool)

	// OnLastResponseID is invoked whenever the response ledger commits.
	OnLastResponseID func(string)
}

func (h Hooks) emitItem(item ai.Item) {
	if h.OnItem != nil {
		h.OnItem(item)
	}
}

func (h Hooks) emitLoading(loading bool) {
	if h.OnLoading != nil {
		h.OnLoading(loading)
	}
}

func (h Hooks) emitLastResponseID(id string) {
	if h.OnLastResponseID != nil {
		h.OnLastResponseID(id)
	}
}
