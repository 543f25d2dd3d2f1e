package volley

// Options contains per-request configuration for a turn.
type Options struct {
	Model             string
	Instructions      string
	MaxOutputTokens   int
	Temperature       *float64
	Tools             []Tool
	ToolChoice        ToolChoice
	ParallelToolCalls *bool
}

// Option is a functional option for configuring turn requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithInstructions sets the system instructions sent with each request.
func WithInstructions(instructions string) Option {
	return func(o *Options) {
		o.Instructions = instructions
	}
}

// WithMaxOutputTokens sets the maximum number of tokens to generate.
func WithMaxOutputTokens(n int) Option {
	return func(o *Options) {
		o.MaxOutputTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithTools sets the tools available to the model.
func WithTools(tools []Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithToolChoice controls how the model selects tools.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// WithParallelToolCalls enables or disables parallel tool call emission.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.ParallelToolCalls = &enabled
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
