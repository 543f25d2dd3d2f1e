package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ai "github.com/volleyhq/volley"
)

func echoHandler(ctx context.Context, call ai.ToolCall) (string, error) {
	return call.Arguments, nil
}

func TestRegistryRegister(t *testing.T) {
	t.Run("registers and retrieves", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "echo"}, echoHandler))

		assert.True(t, r.Has("echo"))
		assert.Equal(t, 1, r.Len())
		assert.Equal(t, []string{"echo"}, r.Names())

		handler, ok := r.Get("echo")
		assert.True(t, ok)
		assert.NotNil(t, handler)

		def, ok := r.GetTool("echo")
		assert.True(t, ok)
		assert.Equal(t, "echo", def.Name)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "echo"}, echoHandler))

		err := r.Register(ai.Tool{Name: "echo"}, echoHandler)
		require.Error(t, err)

		var dup *ErrToolAlreadyRegistered
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "echo", dup.Name)
	})

	t.Run("MustRegister panics on duplicate", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "echo"}, echoHandler)

		assert.Panics(t, func() {
			r.MustRegister(ai.Tool{Name: "echo"}, echoHandler)
		})
	})

	t.Run("unregister is idempotent", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "echo"}, echoHandler)

		r.Unregister("echo")
		assert.False(t, r.Has("echo"))

		r.Unregister("echo")
		assert.Zero(t, r.Len())
	})
}

func TestRegistryExecute(t *testing.T) {
	t.Run("runs the handler", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "echo"}, echoHandler)

		out, err := r.Execute(context.Background(), ai.ToolCall{
			Name:      "echo",
			Arguments: `{"x":1}`,
		})
		require.NoError(t, err)
		assert.Equal(t, `{"x":1}`, out)
	})

	t.Run("unknown tool returns ErrToolNotFound", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.Execute(context.Background(), ai.ToolCall{Name: "missing"})
		require.Error(t, err)

		var notFound *ErrToolNotFound
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "missing", notFound.Name)
	})

	t.Run("handler failures are wrapped", func(t *testing.T) {
		r := NewRegistry()
		cause := errors.New("disk full")
		r.MustRegister(ai.Tool{Name: "boom"}, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "", cause
		})

		_, err := r.Execute(context.Background(), ai.ToolCall{Name: "boom"})
		require.Error(t, err)

		var exec *ErrToolExecution
		require.True(t, errors.As(err, &exec))
		assert.Equal(t, "boom", exec.Name)
		assert.ErrorIs(t, err, cause)
	})
}

func TestRegisterFunc(t *testing.T) {
	type addArgs struct {
		A int `json:"a" desc:"First operand" required:"true"`
		B int `json:"b" desc:"Second operand" required:"true"`
	}

	t.Run("unmarshals typed arguments", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterFunc(r, "add", "Add two numbers",
			func(ctx context.Context, args addArgs) (string, error) {
				return "sum", nil
			}))

		def, ok := r.GetTool("add")
		require.True(t, ok)
		assert.Equal(t, "Add two numbers", def.Description)

		var schema map[string]any
		require.NoError(t, json.Unmarshal(def.Parameters, &schema))
		assert.Equal(t, "object", schema["type"])
		props := schema["properties"].(map[string]any)
		assert.Contains(t, props, "a")
		assert.Contains(t, props, "b")

		out, err := r.Execute(context.Background(), ai.ToolCall{
			Name:      "add",
			Arguments: `{"a":2,"b":3}`,
		})
		require.NoError(t, err)
		assert.Equal(t, "sum", out)
	})

	t.Run("malformed arguments fail execution", func(t *testing.T) {
		r := NewRegistry()
		MustRegisterFunc(r, "add", "Add",
			func(ctx context.Context, args addArgs) (string, error) {
				return "sum", nil
			})

		_, err := r.Execute(context.Background(), ai.ToolCall{
			Name:      "add",
			Arguments: `not json`,
		})
		assert.Error(t, err)
	})
}

func TestRegistryAdd(t *testing.T) {
	type nameArgs struct {
		Name string `json:"name" desc:"Who to greet"`
	}

	r := NewRegistry().Add(
		Func("greet", "Greet someone", func(ctx context.Context, args nameArgs) (string, error) {
			return "hello " + args.Name, nil
		}),
		WithHandler("raw", "Raw handler", json.RawMessage(`{"type":"object"}`), echoHandler),
	)

	assert.Equal(t, 2, r.Len())
	assert.ElementsMatch(t, []string{"greet", "raw"}, r.Names())

	out, err := r.Execute(context.Background(), ai.ToolCall{
		Name:      "greet",
		Arguments: `{"name":"ada"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello ada", out)

	tools := r.Tools()
	assert.Len(t, tools, 2)
}
