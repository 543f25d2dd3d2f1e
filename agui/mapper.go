package agui

import (
	"fmt"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/volleyhq/volley/event"
)

// Mapper converts volley run events to AG-UI events. Each run event maps to
// at most one AG-UI event.
//
// Create a new Mapper for each run using NewMapper. The Mapper is not safe
// for concurrent use.
type Mapper struct {
	threadID string
	runID    string
}

// NewMapper creates a Mapper for a single run. The threadID and runID are
// used in lifecycle events (RUN_STARTED, RUN_FINISHED); empty ids are
// generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// MapEvent converts a run event to an AG-UI event. Returns nil for events
// with no AG-UI equivalent.
func (m *Mapper) MapEvent(e event.Event) events.Event {
	switch e.Type {
	// Run lifecycle
	case event.RunStart:
		return m.RunStarted()
	case event.RunEnd:
		return m.RunFinished()
	case event.RunError:
		return m.RunError(e.Error)

	// Turns surface as AG-UI steps
	case event.TurnStart:
		return events.NewStepStartedEvent(stepName(e.Turn))
	case event.TurnEnd, event.TurnCancelled:
		return events.NewStepFinishedEvent(stepName(e.Turn))

	// Message lifecycle
	case event.MessageStart:
		return events.NewTextMessageStartEvent(
			e.MessageID,
			events.WithRole(RoleAssistant),
		)
	case event.MessageDelta:
		return events.NewTextMessageContentEvent(e.MessageID, e.Delta)
	case event.MessageEnd:
		return events.NewTextMessageEndEvent(e.MessageID)

	// Tool call lifecycle
	case event.ToolCallStart:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallStartEvent(e.ToolCall.CallID, e.ToolCall.Name)
	case event.ToolCallArgs:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallArgsEvent(e.ToolCall.CallID, e.ToolCall.Arguments)
	case event.ToolCallEnd:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallEndEvent(e.ToolCall.CallID)
	case event.ToolCallResult:
		if e.ToolCall == nil {
			return nil
		}
		messageID := events.GenerateMessageID()
		return events.NewToolCallResultEvent(messageID, e.ToolCall.CallID, e.Output)

	// Approval and transport progress have no AG-UI equivalent
	case event.ToolCallApproved, event.ToolCallRejected,
		event.ItemDone, event.ResponseCompleted, event.Retrying:
		return nil

	default:
		return nil
	}
}

func stepName(turn int) string {
	return fmt.Sprintf("turn_%d", turn)
}
