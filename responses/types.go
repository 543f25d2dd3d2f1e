package responses

import (
	"encoding/json"
	"strings"

	ai "github.com/volleyhq/volley"
)

// Request is the body sent to a Responses-compatible endpoint.
// When PreviousResponseID is set, the service supplies prior context
// implicitly and Input carries only items it does not yet know about.
type Request struct {
	Model              string    `json:"model"`
	Instructions       string    `json:"instructions,omitempty"`
	Input              []ai.Item `json:"input"`
	Tools              []Tool    `json:"tools,omitempty"`
	ToolChoice         any       `json:"tool_choice,omitempty"`
	ParallelToolCalls  *bool     `json:"parallel_tool_calls,omitempty"`
	MaxOutputTokens    int       `json:"max_output_tokens,omitempty"`
	Temperature        *float64  `json:"temperature,omitempty"`
	Stream             bool      `json:"stream"`
	PreviousResponseID string    `json:"previous_response_id,omitempty"`
}

// Tool is a tool definition in the Responses wire format.
type Tool struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

// BuildRequest assembles a Request from turn options and an input item list.
func BuildRequest(opts *ai.Options, input []ai.Item) Request {
	return Request{
		Model:             opts.Model,
		Instructions:      opts.Instructions,
		Input:             input,
		Tools:             BuildTools(opts.Tools),
		ToolChoice:        BuildToolChoice(opts.ToolChoice),
		ParallelToolCalls: opts.ParallelToolCalls,
		MaxOutputTokens:   opts.MaxOutputTokens,
		Temperature:       opts.Temperature,
		Stream:            true,
	}
}

// BuildTools converts tool specs to the Responses wire format.
func BuildTools(tools []ai.Tool) []Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, Tool{
			Type:        "function",
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return out
}

// BuildToolChoice converts a ToolChoice to the Responses wire format.
// An empty choice returns nil so the field is omitted.
func BuildToolChoice(choice ai.ToolChoice) any {
	switch choice {
	case ai.ToolChoiceAuto, ai.ToolChoiceNone, ai.ToolChoiceRequired:
		return string(choice)
	default:
		return nil
	}
}

// outputItem is an item in the response output stream.
type outputItem struct {
	Type    string          `json:"type"` // "message", "function_call", "reasoning"
	ID      string          `json:"id,omitempty"`
	Role    string          `json:"role,omitempty"`
	Content []outputContent `json:"content,omitempty"`
	// For function_call
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	// For reasoning
	EncryptedContent string `json:"encrypted_content,omitempty"`
}

type outputContent struct {
	Type    string `json:"type"` // "output_text" or "refusal"
	Text    string `json:"text,omitempty"`
	Refusal string `json:"refusal,omitempty"`
}

type wireUsage struct {
	InputTokens        int `json:"input_tokens"`
	OutputTokens       int `json:"output_tokens"`
	InputTokensDetails struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"input_tokens_details"`
}

type wireError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// itemFromWire converts a finalized output item to a conversation item.
// Returns false for item kinds that do not map to conversation items.
func itemFromWire(w outputItem) (ai.Item, bool) {
	switch w.Type {
	case "function_call":
		return ai.NewFunctionCall(w.CallID, w.Name, w.Arguments), true
	case "message":
		var text strings.Builder
		for _, c := range w.Content {
			switch c.Type {
			case "output_text":
				text.WriteString(c.Text)
			case "refusal":
				text.WriteString(c.Refusal)
			}
		}
		return ai.NewAssistantMessage(text.String()), true
	case "reasoning":
		return ai.Item{
			Type:             ai.ItemTypeReasoning,
			ID:               w.ID,
			EncryptedContent: w.EncryptedContent,
		}, true
	default:
		return ai.Item{}, false
	}
}
