// Package agent drives turns of a tool-using conversation against a
// streaming Responses-compatible endpoint.
//
// Each turn sends carried-forward items plus new input, consumes the
// response stream, and settles as completed, cancelled, or failed. The
// package tracks every function call emitted during a turn: a call becomes
// addressable for output pairing only when its owning response reaches the
// terminal completed event. Calls left pending when a turn is cancelled or
// fails are dropped from all future input; pairing them with synthetic
// outputs would be rejected by the service because no completed response id
// anchors them.
//
// The response ledger records the id of the most recent completed response
// and is used to chain requests via previous_response_id. It is never
// mutated on cancellation or failure, so an interrupted turn leaves the
// session exactly where the prior completed turn left it.
package agent
