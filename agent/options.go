package agent

import (
	"context"
	"log/slog"

	ai "github.com/volleyhq/volley"
	"github.com/volleyhq/volley/event"
	"github.com/volleyhq/volley/retry"
	"github.com/volleyhq/volley/tool"
)

// ApproverFunc is called when a tool call requires approval.
// It returns true to approve the call, or false with a reason to reject it.
// The rejection reason is sent back to the model as the call's output.
type ApproverFunc func(ctx context.Context, call ai.ToolCall) (approved bool, reason string)

// Options contains configuration for an agent session.
type Options struct {
	// MaxTurns limits the number of request/response cycles in one run.
	// Default is 10.
	MaxTurns int

	// RetryConfig governs backoff for transient transport errors.
	// Defaults to retry.DefaultConfig.
	RetryConfig retry.Config

	// Registry resolves and executes tool calls. If nil, every call is
	// answered with an error output.
	Registry *tool.Registry

	// Approver enables human-in-the-loop approval for tool calls.
	// If nil, all tool calls are automatically approved.
	Approver ApproverFunc

	// ApprovalRequired specifies which tool names require approval.
	// If empty and Approver is set, all tools require approval.
	ApprovalRequired []string

	// Hooks are collaborator callbacks for finalized items, loading state,
	// and ledger commits.
	Hooks Hooks

	// Events is an optional channel for observing run events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- event.Event

	// Logger receives diagnostic records. If nil, logging is discarded.
	Logger *slog.Logger

	// Format renders items for logs and approval prompts.
	// Defaults to volley.FormatItem.
	Format ai.FormatFunc

	// DisableServerState disables previous_response_id chaining; the full
	// item history is sent with every request instead.
	DisableServerState bool

	// RequestOptions are applied to every request the agent issues
	// (model, instructions, tools, sampling).
	RequestOptions []ai.Option
}

// Option is a functional option for configuring an agent.
type Option func(*Options)

// WithMaxTurns sets the maximum number of request/response cycles per run.
func WithMaxTurns(n int) Option {
	return func(o *Options) {
		o.MaxTurns = n
	}
}

// WithRetryConfig sets the backoff configuration for transient errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(o *Options) {
		o.RetryConfig = cfg
	}
}

// WithRegistry sets the tool registry used to execute approved calls.
func WithRegistry(r *tool.Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// WithApprover sets the human-in-the-loop approval function.
func WithApprover(fn ApproverFunc) Option {
	return func(o *Options) {
		o.Approver = fn
	}
}

// WithApprovalRequired specifies which tools require approval.
// If not called but WithApprover is used, all tools require approval.
func WithApprovalRequired(tools ...string) Option {
	return func(o *Options) {
		o.ApprovalRequired = tools
	}
}

// WithHooks sets the collaborator callbacks.
func WithHooks(h Hooks) Option {
	return func(o *Options) {
		o.Hooks = h
	}
}

// WithEvents sets the channel receiving run events.
func WithEvents(ch chan<- event.Event) Option {
	return func(o *Options) {
		o.Events = ch
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithFormatter sets the item formatter used in logs and approval prompts.
func WithFormatter(fn ai.FormatFunc) Option {
	return func(o *Options) {
		o.Format = fn
	}
}

// WithoutServerState disables previous_response_id chaining. Every request
// carries the full item history.
func WithoutServerState() Option {
	return func(o *Options) {
		o.DisableServerState = true
	}
}

// WithModel sets the model for every request.
func WithModel(model string) Option {
	return WithRequestOptions(ai.WithModel(model))
}

// WithInstructions sets the system instructions for every request.
func WithInstructions(instructions string) Option {
	return WithRequestOptions(ai.WithInstructions(instructions))
}

// WithRequestOptions appends request options applied to every request.
func WithRequestOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.RequestOptions = append(o.RequestOptions, opts...)
	}
}

// applyOptions applies functional options over defaults.
func applyOptions(opts ...Option) *Options {
	o := &Options{
		MaxTurns:    10,
		RetryConfig: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Format == nil {
		o.Format = ai.FormatItem
	}
	return o
}
