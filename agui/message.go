package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/volleyhq/volley"
)

// Role constants matching the AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// ToItems converts AG-UI messages to transcript items. Assistant messages
// carrying tool calls expand into one function call item per call; tool
// messages become function call outputs.
func ToItems(msgs []events.Message) []ai.Item {
	result := make([]ai.Item, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, ToItemsFromMessage(msg)...)
	}
	return result
}

// ToItemsFromMessage converts a single AG-UI message to transcript items.
func ToItemsFromMessage(msg events.Message) []ai.Item {
	// Tool messages carry the output for one call
	if msg.ToolCallID != nil {
		content := ""
		if msg.Content != nil {
			content = *msg.Content
		}
		return []ai.Item{ai.NewFunctionCallOutput(*msg.ToolCallID, content)}
	}

	var items []ai.Item
	if msg.Content != nil && *msg.Content != "" {
		items = append(items, ai.Item{
			Type:    ai.ItemTypeMessage,
			Role:    toRole(msg.Role),
			Content: *msg.Content,
		})
	}
	for _, tc := range msg.ToolCalls {
		items = append(items, ai.NewFunctionCall(tc.ID, tc.Function.Name, tc.Function.Arguments))
	}
	return items
}

// FromItems converts transcript items to AG-UI messages.
func FromItems(items []ai.Item) []events.Message {
	result := make([]events.Message, 0, len(items))
	for _, item := range items {
		result = append(result, FromItem(item))
	}
	return result
}

// FromItem converts a single transcript item to an AG-UI message.
func FromItem(item ai.Item) events.Message {
	m := events.Message{
		ID: events.GenerateMessageID(),
	}

	switch item.Type {
	case ai.ItemTypeFunctionCall:
		m.Role = RoleAssistant
		m.ToolCalls = []events.ToolCall{{
			ID:   item.CallID,
			Type: "function",
			Function: events.Function{
				Name:      item.Name,
				Arguments: item.Arguments,
			},
		}}

	case ai.ItemTypeFunctionCallOutput:
		m.Role = RoleTool
		callID := item.CallID
		output := item.Output
		m.ToolCallID = &callID
		m.Content = &output

	default:
		m.Role = fromRole(item.Role)
		if item.Content != "" {
			content := item.Content
			m.Content = &content
		}
	}

	return m
}

func toRole(role string) ai.Role {
	switch role {
	case RoleAssistant:
		return ai.RoleAssistant
	case RoleSystem:
		return ai.RoleDeveloper
	default:
		return ai.RoleUser
	}
}

func fromRole(role ai.Role) string {
	switch role {
	case ai.RoleAssistant:
		return RoleAssistant
	case ai.RoleDeveloper:
		return RoleSystem
	default:
		return RoleUser
	}
}
