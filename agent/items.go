package agent

import (
	ai "github.com/volleyhq/volley"
)

// isDropped reports whether an item references a call id that must never
// appear in request input again: a function call whose owning response was
// cancelled or failed, or an output that would pair with one.
func isDropped(item ai.Item, dropped map[string]struct{}) bool {
	if item.Type != ai.ItemTypeFunctionCall && item.Type != ai.ItemTypeFunctionCallOutput {
		return false
	}
	_, ok := dropped[item.CallID]
	return ok
}

// filterDangling removes function calls with dropped ids and any function
// call output referencing such an id.
func filterDangling(items []ai.Item, dropped map[string]struct{}) []ai.Item {
	if len(dropped) == 0 {
		return items
	}
	out := make([]ai.Item, 0, len(items))
	for _, item := range items {
		if isDropped(item, dropped) {
			continue
		}
		out = append(out, item)
	}
	return out
}
