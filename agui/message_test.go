package agui

import (
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/volleyhq/volley"
)

func TestToItemsFromMessage(t *testing.T) {
	t.Run("user message", func(t *testing.T) {
		content := "Hello"
		items := ToItemsFromMessage(events.Message{
			ID:      "msg-1",
			Role:    RoleUser,
			Content: &content,
		})

		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].Type != ai.ItemTypeMessage {
			t.Errorf("expected message item, got %v", items[0].Type)
		}
		if items[0].Role != ai.RoleUser {
			t.Errorf("expected RoleUser, got %v", items[0].Role)
		}
		if items[0].Content != "Hello" {
			t.Errorf("expected 'Hello', got %q", items[0].Content)
		}
	})

	t.Run("system message maps to developer role", func(t *testing.T) {
		content := "Be brief"
		items := ToItemsFromMessage(events.Message{
			Role:    RoleSystem,
			Content: &content,
		})

		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].Role != ai.RoleDeveloper {
			t.Errorf("expected RoleDeveloper, got %v", items[0].Role)
		}
	})

	t.Run("assistant message with tool calls expands", func(t *testing.T) {
		content := "Checking the weather"
		items := ToItemsFromMessage(events.Message{
			Role:    RoleAssistant,
			Content: &content,
			ToolCalls: []events.ToolCall{
				{
					ID:   "call-1",
					Type: "function",
					Function: events.Function{
						Name:      "get_weather",
						Arguments: `{"location": "NYC"}`,
					},
				},
			},
		})

		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Type != ai.ItemTypeMessage {
			t.Errorf("expected message first, got %v", items[0].Type)
		}
		if !items[1].IsFunctionCall() {
			t.Errorf("expected function call second, got %v", items[1].Type)
		}
		if items[1].CallID != "call-1" {
			t.Errorf("expected 'call-1', got %q", items[1].CallID)
		}
		if items[1].Name != "get_weather" {
			t.Errorf("expected 'get_weather', got %q", items[1].Name)
		}
	})

	t.Run("tool message becomes function call output", func(t *testing.T) {
		content := `{"temp": 72}`
		toolCallID := "call-1"
		items := ToItemsFromMessage(events.Message{
			Role:       RoleTool,
			Content:    &content,
			ToolCallID: &toolCallID,
		})

		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if !items[0].IsFunctionCallOutput() {
			t.Errorf("expected function call output, got %v", items[0].Type)
		}
		if items[0].CallID != "call-1" {
			t.Errorf("expected 'call-1', got %q", items[0].CallID)
		}
		if items[0].Output != `{"temp": 72}` {
			t.Errorf("unexpected output %q", items[0].Output)
		}
	})

	t.Run("empty message yields nothing", func(t *testing.T) {
		items := ToItemsFromMessage(events.Message{Role: RoleUser})
		if len(items) != 0 {
			t.Errorf("expected 0 items, got %d", len(items))
		}
	})
}

func TestFromItem(t *testing.T) {
	t.Run("function call", func(t *testing.T) {
		msg := FromItem(ai.NewFunctionCall("call-1", "search", `{"q":"go"}`))

		if msg.Role != RoleAssistant {
			t.Errorf("expected 'assistant', got %q", msg.Role)
		}
		if len(msg.ToolCalls) != 1 {
			t.Fatalf("expected 1 tool call, got %d", len(msg.ToolCalls))
		}
		if msg.ToolCalls[0].ID != "call-1" {
			t.Errorf("expected 'call-1', got %q", msg.ToolCalls[0].ID)
		}
		if msg.ToolCalls[0].Function.Name != "search" {
			t.Errorf("expected 'search', got %q", msg.ToolCalls[0].Function.Name)
		}
	})

	t.Run("function call output", func(t *testing.T) {
		msg := FromItem(ai.NewFunctionCallOutput("call-1", "results"))

		if msg.Role != RoleTool {
			t.Errorf("expected 'tool', got %q", msg.Role)
		}
		if msg.ToolCallID == nil || *msg.ToolCallID != "call-1" {
			t.Errorf("expected tool call id 'call-1', got %v", msg.ToolCallID)
		}
		if msg.Content == nil || *msg.Content != "results" {
			t.Errorf("expected 'results', got %v", msg.Content)
		}
	})

	t.Run("developer message maps to system role", func(t *testing.T) {
		msg := FromItem(ai.NewDeveloperMessage("be brief"))
		if msg.Role != RoleSystem {
			t.Errorf("expected 'system', got %q", msg.Role)
		}
	})
}

func TestItemRoundTrip(t *testing.T) {
	original := []ai.Item{
		ai.NewUserMessage("what's the weather?"),
		ai.NewFunctionCall("call-1", "get_weather", `{"location":"NYC"}`),
		ai.NewFunctionCallOutput("call-1", "72F"),
		ai.NewAssistantMessage("It is 72F in NYC."),
	}

	msgs := FromItems(original)
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}

	roundTripped := ToItems(msgs)
	if len(roundTripped) != 4 {
		t.Fatalf("expected 4 items, got %d", len(roundTripped))
	}

	for i := range original {
		if roundTripped[i].Type != original[i].Type {
			t.Errorf("item %d: type %v != %v", i, roundTripped[i].Type, original[i].Type)
		}
		if roundTripped[i].CallID != original[i].CallID {
			t.Errorf("item %d: call id %q != %q", i, roundTripped[i].CallID, original[i].CallID)
		}
		if roundTripped[i].Content != original[i].Content {
			t.Errorf("item %d: content %q != %q", i, roundTripped[i].Content, original[i].Content)
		}
	}
}
