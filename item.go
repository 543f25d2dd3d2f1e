package volley

import (
	"strings"

	"github.com/google/uuid"
)

// Role represents the role of a message item in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleDeveloper carries system-level instructions in the Responses
	// item format. System prompts are sent with this role.
	RoleDeveloper Role = "developer"
)

// ItemType identifies the kind of a conversation item.
type ItemType string

const (
	// ItemTypeMessage is a plain conversational message.
	ItemTypeMessage ItemType = "message"

	// ItemTypeFunctionCall is a model-emitted request to invoke a tool,
	// identified by a unique call id.
	ItemTypeFunctionCall ItemType = "function_call"

	// ItemTypeFunctionCallOutput carries the result of executing a
	// function call. Its CallID must reference a prior function call whose
	// owning response completed.
	ItemTypeFunctionCallOutput ItemType = "function_call_output"

	// ItemTypeReasoning is an opaque reasoning item replayed for models
	// that support encrypted reasoning state.
	ItemTypeReasoning ItemType = "reasoning"
)

// Item is a single entry in a conversation's input or output. It is a tagged
// union in the Responses item format: exactly one of the field groups below is
// populated, selected by Type.
type Item struct {
	Type ItemType `json:"type"`

	// Message fields.
	Role    Role   `json:"role,omitempty"`
	Content string `json:"content,omitempty"`

	// Function call fields.
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`

	// Function call output fields (CallID is shared with function calls).
	Output string `json:"output,omitempty"`

	// Reasoning fields.
	ID               string `json:"id,omitempty"`
	EncryptedContent string `json:"encrypted_content,omitempty"`
}

// NewUserMessage creates a user message item.
func NewUserMessage(content string) Item {
	return Item{Type: ItemTypeMessage, Role: RoleUser, Content: content}
}

// NewDeveloperMessage creates a developer (system instruction) message item.
func NewDeveloperMessage(content string) Item {
	return Item{Type: ItemTypeMessage, Role: RoleDeveloper, Content: content}
}

// NewAssistantMessage creates an assistant message item.
func NewAssistantMessage(content string) Item {
	return Item{Type: ItemTypeMessage, Role: RoleAssistant, Content: content}
}

// NewFunctionCall creates a function call item. Arguments must be a JSON
// object string; empty arguments are normalized to "{}".
func NewFunctionCall(callID, name, arguments string) Item {
	args := strings.TrimSpace(arguments)
	if args == "" {
		args = "{}"
	}
	return Item{
		Type:      ItemTypeFunctionCall,
		CallID:    callID,
		Name:      name,
		Arguments: args,
	}
}

// NewFunctionCallOutput creates a function call output item pairing a result
// with a prior function call.
func NewFunctionCallOutput(callID, output string) Item {
	return Item{
		Type:   ItemTypeFunctionCallOutput,
		CallID: callID,
		Output: output,
	}
}

// IsFunctionCall reports whether the item is a function call.
func (i Item) IsFunctionCall() bool {
	return i.Type == ItemTypeFunctionCall
}

// IsFunctionCallOutput reports whether the item is a function call output.
func (i Item) IsFunctionCallOutput() bool {
	return i.Type == ItemTypeFunctionCallOutput
}

// AsToolCall extracts the tool call from a function call item.
// Returns false if the item is not a function call.
func (i Item) AsToolCall() (ToolCall, bool) {
	if i.Type != ItemTypeFunctionCall {
		return ToolCall{}, false
	}
	return ToolCall{CallID: i.CallID, Name: i.Name, Arguments: i.Arguments}, true
}

// NewCallID generates a unique call id for locally constructed calls.
// Ids assigned by the remote service are used verbatim.
func NewCallID() string {
	return "call-" + uuid.New().String()
}

// Usage tracks token consumption for a completed response.
type Usage struct {
	InputTokens       int `json:"inputTokens"`
	OutputTokens      int `json:"outputTokens"`
	CachedInputTokens int `json:"cachedInputTokens,omitempty"`
}

// Add accumulates another usage record into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CachedInputTokens += other.CachedInputTokens
}

// Total returns the combined input and output token count.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
