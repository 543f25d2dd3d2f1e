package volley

import "encoding/json"

// Tool defines a function that can be called by the model.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does (helps the model decide when to use it).
	Description string
	// Parameters is a JSON Schema object defining the function parameters.
	Parameters json.RawMessage
}

// ToolCall represents a request from the model to invoke a tool.
type ToolCall struct {
	// CallID is a unique identifier for this call (used to match outputs).
	CallID string `json:"callId"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is a JSON string containing the arguments to pass.
	Arguments string `json:"arguments"`
}

// ToolChoice controls how the model uses tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide when to use tools (default).
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone disables tool use for the request.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceRequired forces the model to use a tool.
	ToolChoiceRequired ToolChoice = "required"
)

// FormatFunc renders an item as a human-readable string, for logs and
// approval prompts. Implementations must be pure functions.
type FormatFunc func(Item) string

// FormatItem is the default FormatFunc. Function calls render as
// "name(arguments)", outputs as "-> output", messages as their content.
func FormatItem(item Item) string {
	switch item.Type {
	case ItemTypeFunctionCall:
		return item.Name + "(" + item.Arguments + ")"
	case ItemTypeFunctionCallOutput:
		return "-> " + item.Output
	default:
		return item.Content
	}
}
