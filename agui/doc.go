// Package agui integrates volley with the AG-UI protocol.
//
// AG-UI (Agent-User Interface) is an open, event-based protocol that
// standardizes how AI agents connect to user-facing applications. This
// package maps volley run events to AG-UI events and converts AG-UI
// messages to and from transcript items, enabling integration with
// AG-UI-compatible frontends.
//
// The package does not provide HTTP handlers or transports. Implement your
// own server using the AG-UI SDK's SSE writer or your preferred transport.
//
// # Usage
//
// Create a Mapper per run and convert events as they arrive:
//
//	mapper := agui.NewMapper(threadID, runID)
//	writeEvent(mapper.RunStarted())
//
//	events := event.NewChannel()
//	session := agent.New(client, agent.WithEvents(events))
//
//	go func() {
//	    for e := range events {
//	        if mapped := mapper.MapEvent(e); mapped != nil {
//	            writeEvent(mapped)
//	        }
//	    }
//	}()
//
// Frontend requests arrive as [RunAgentInput]; Prepare validates them and
// converts the message history into transcript items.
package agui
