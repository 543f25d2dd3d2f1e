package responses

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ai "github.com/volleyhq/volley"
)

// EventType identifies the kind of a stream event.
type EventType string

const (
	// EventTextDelta carries an incremental chunk of assistant text.
	EventTextDelta EventType = "text_delta"

	// EventItemDone carries a fully-formed output item, notably function calls.
	EventItemDone EventType = "item_done"

	// EventCompleted is the terminal event of a successful response,
	// carrying the response identifier.
	EventCompleted EventType = "completed"
)

// Event is a decoded stream event.
type Event struct {
	Type       EventType
	Delta      string
	Item       *ai.Item
	ResponseID string
	Usage      *ai.Usage
}

// Stream consumes the ordered sequence of events produced by one in-flight
// request. Recv returns io.EOF when the stream is exhausted; unrecognized
// event kinds are skipped, not surfaced.
type Stream interface {
	// Recv returns the next recognized event in emission order.
	Recv() (Event, error)
	// Close aborts the underlying transport stream. Safe to call
	// concurrently with Recv and after the stream is exhausted.
	Close() error
}

// httpStream decodes server-sent events from a Responses endpoint.
// It reads incrementally and never buffers the full stream.
type httpStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func newHTTPStream(body io.ReadCloser) *httpStream {
	scanner := bufio.NewScanner(body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	return &httpStream{body: body, scanner: scanner}
}

func (s *httpStream) Close() error {
	return s.body.Close()
}

// Recv scans SSE lines until it decodes a recognized event.
func (s *httpStream) Recv() (Event, error) {
	var eventType string

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			eventType = strings.TrimPrefix(line, "event: ")
			continue
		}
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			return Event{}, io.EOF
		}

		ev, ok, err := decodeEvent(eventType, data)
		eventType = ""
		if err != nil {
			return Event{}, err
		}
		if ok {
			return ev, nil
		}
		// Unrecognized event kind: skip and keep scanning.
	}

	if err := s.scanner.Err(); err != nil {
		return Event{}, ai.NewTransientError("stream read failed", 0, err)
	}
	return Event{}, io.EOF
}

// decodeEvent maps one SSE event to a stream event. The second return is
// false for event kinds that are passed through without decoding.
func decodeEvent(eventType, data string) (Event, bool, error) {
	switch eventType {
	case "response.output_text.delta":
		var delta struct {
			Delta string `json:"delta"`
		}
		if err := json.Unmarshal([]byte(data), &delta); err != nil || delta.Delta == "" {
			return Event{}, false, nil
		}
		return Event{Type: EventTextDelta, Delta: delta.Delta}, true, nil

	case "response.output_item.done":
		var done struct {
			Item outputItem `json:"item"`
		}
		if err := json.Unmarshal([]byte(data), &done); err != nil {
			return Event{}, false, nil
		}
		item, ok := itemFromWire(done.Item)
		if !ok {
			return Event{}, false, nil
		}
		return Event{Type: EventItemDone, Item: &item}, true, nil

	case "response.completed":
		var completed struct {
			Response struct {
				ID    string     `json:"id"`
				Usage *wireUsage `json:"usage,omitempty"`
			} `json:"response"`
		}
		if err := json.Unmarshal([]byte(data), &completed); err != nil {
			return Event{}, false, nil
		}
		ev := Event{Type: EventCompleted, ResponseID: completed.Response.ID}
		if u := completed.Response.Usage; u != nil {
			ev.Usage = &ai.Usage{
				InputTokens:       u.InputTokens,
				OutputTokens:      u.OutputTokens,
				CachedInputTokens: u.InputTokensDetails.CachedTokens,
			}
		}
		return ev, true, nil

	case "response.failed", "error":
		var failed struct {
			Error *wireError `json:"error"`
		}
		if err := json.Unmarshal([]byte(data), &failed); err == nil && failed.Error != nil {
			return Event{}, false, classifyStreamError(failed.Error)
		}
		return Event{}, false, ai.NewPermanentError("response failed", 0, nil)

	default:
		return Event{}, false, nil
	}
}

// classifyStreamError maps an in-stream error payload to a categorized error.
// Overload and rate limit failures are worth retrying; everything else is not.
func classifyStreamError(we *wireError) error {
	msg := fmt.Sprintf("response failed: %s", we.Message)
	lower := strings.ToLower(we.Message + " " + we.Type)
	if strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "overloaded") ||
		strings.Contains(lower, "server_error") {
		return ai.NewTransientError(msg, 0, nil)
	}
	return ai.NewPermanentError(msg, 0, nil)
}
