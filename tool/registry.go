package tool

import (
	"context"
	"encoding/json"
	"sync"

	ai "github.com/volleyhq/volley"
)

// registeredTool combines a tool definition with its handler.
type registeredTool struct {
	tool    ai.Tool
	handler Handler
}

// Registry manages registered tools and their handlers.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registeredTool),
	}
}

// Register adds a tool with its handler to the registry.
// Returns an error if a tool with the same name is already registered.
func (r *Registry) Register(tool ai.Tool, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: tool.Name}
	}

	r.tools[tool.Name] = registeredTool{
		tool:    tool,
		handler: handler,
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tool ai.Tool, handler Handler) {
	if err := r.Register(tool, handler); err != nil {
		panic(err)
	}
}

// Unregister removes a tool from the registry.
// It is a no-op if the tool is not registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Get retrieves a handler by tool name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return rt.handler, true
}

// GetTool retrieves a tool definition by name.
func (r *Registry) GetTool(name string) (ai.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return ai.Tool{}, false
	}
	return rt.tool, true
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Tools returns all registered tool definitions, for inclusion in requests.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, rt := range r.tools {
		tools = append(tools, rt.tool)
	}
	return tools
}

// Names returns the names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs the handler for a tool call and returns its content.
// If the tool is not found, returns ErrToolNotFound. Handler failures are
// wrapped in ErrToolExecution.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (string, error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return "", &ErrToolNotFound{Name: call.Name}
	}

	content, err := rt.handler(ctx, call)
	if err != nil {
		return "", &ErrToolExecution{Name: call.Name, Err: err}
	}
	return content, nil
}

// RegisterFunc registers a tool with a typed handler that automatically
// unmarshals the arguments JSON into the specified type T. The parameter
// schema is generated from T's struct tags.
//
// Example:
//
//	type SearchArgs struct {
//	    Query string `json:"query" desc:"Search query" required:"true"`
//	}
//
//	tool.RegisterFunc(registry, "search", "Search the web",
//	    func(ctx context.Context, args SearchArgs) (string, error) {
//	        return doSearch(args.Query), nil
//	    },
//	)
func RegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) error {
	schema, err := ai.SchemaFor[T]()
	if err != nil {
		return err
	}

	t := ai.Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
	}

	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}
		return fn(ctx, args)
	}

	return r.Register(t, handler)
}

// MustRegisterFunc is like RegisterFunc but panics on error.
func MustRegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) {
	if err := RegisterFunc(r, name, description, fn); err != nil {
		panic(err)
	}
}

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func creates a Registration with automatic schema generation from the
// typed handler. Panics if schema generation fails.
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	schema := ai.MustSchemaFor[T]()
	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}
		return fn(ctx, args)
	}
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: handler,
	}
}

// WithHandler creates a Registration from a Handler and schema.
func WithHandler(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: h,
	}
}

// Add registers one or more tools to the registry.
// Panics if any tool is already registered.
// Returns the registry for fluent chaining.
//
// Example:
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("weather", "Get weather", weatherFn),
//	    tool.Func("search", "Search web", searchFn),
//	)
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Tool, reg.Handler)
	}
	return r
}
