package agui

import (
	"encoding/json"
	"errors"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/volleyhq/volley"
)

// RunAgentInput is the AG-UI protocol request for running an agent. It
// mirrors the protocol specification and is transport-agnostic.
type RunAgentInput struct {
	ThreadID       string           `json:"thread_id"`
	RunID          string           `json:"run_id"`
	Messages       []events.Message `json:"messages"`
	Tools          []any            `json:"tools,omitempty"`
	Context        []any            `json:"context,omitempty"`
	State          any              `json:"state,omitempty"`
	ForwardedProps any              `json:"forwarded_props,omitempty"`
}

// PreparedInput contains validated and converted input ready for a run.
type PreparedInput struct {
	ThreadID  string
	RunID     string
	Items     []ai.Item
	Tools     []Tool
	ToolNames []string
	State     any
}

// ErrNoMessages is returned when the input contains no messages.
var ErrNoMessages = errors.New("no messages provided")

// Prepare validates the input and converts the message history to
// transcript items. Returns ErrNoMessages if Messages is empty.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	items := ToItems(r.Messages)
	if len(items) == 0 {
		return nil, ErrNoMessages
	}

	result := &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Items:    items,
		State:    r.State,
	}

	if len(r.Tools) > 0 {
		tools, err := ParseTools(r.Tools)
		if err != nil {
			return nil, err
		}
		result.Tools = tools
		result.ToolNames = ToolNames(tools)
	}

	return result, nil
}

// RequestTools converts the parsed frontend tools to volley tools.
// Returns nil if no tools were parsed.
func (p *PreparedInput) RequestTools() []ai.Tool {
	return ToTools(p.Tools)
}

// DecodeState decodes the raw frontend state into a typed struct.
// Returns the zero value of T if State is nil.
func DecodeState[T any](input *PreparedInput) (T, error) {
	var result T
	if input.State == nil {
		return result, nil
	}

	data, err := json.Marshal(input.State)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, err
	}
	return result, nil
}
