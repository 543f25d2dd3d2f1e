package volley

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	t.Run("returns empty options when no options provided", func(t *testing.T) {
		opts := ApplyOptions()
		assert.NotNil(t, opts)
		assert.Empty(t, opts.Model)
		assert.Empty(t, opts.Instructions)
		assert.Zero(t, opts.MaxOutputTokens)
		assert.Nil(t, opts.Temperature)
		assert.Nil(t, opts.Tools)
		assert.Empty(t, opts.ToolChoice)
		assert.Nil(t, opts.ParallelToolCalls)
	})

	t.Run("applies multiple options", func(t *testing.T) {
		tools := []Tool{{Name: "test"}}
		opts := ApplyOptions(
			WithModel("gpt-4.1"),
			WithInstructions("be brief"),
			WithMaxOutputTokens(1000),
			WithTemperature(0.7),
			WithTools(tools),
			WithToolChoice(ToolChoiceRequired),
			WithParallelToolCalls(false),
		)

		assert.Equal(t, "gpt-4.1", opts.Model)
		assert.Equal(t, "be brief", opts.Instructions)
		assert.Equal(t, 1000, opts.MaxOutputTokens)
		require.NotNil(t, opts.Temperature)
		assert.Equal(t, 0.7, *opts.Temperature)
		assert.Equal(t, tools, opts.Tools)
		assert.Equal(t, ToolChoiceRequired, opts.ToolChoice)
		require.NotNil(t, opts.ParallelToolCalls)
		assert.False(t, *opts.ParallelToolCalls)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		opts := ApplyOptions(
			WithModel("gpt-4.1-mini"),
			WithModel("gpt-4.1"),
		)
		assert.Equal(t, "gpt-4.1", opts.Model)
	})
}

func TestWithTemperature(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"sets zero", 0.0},
		{"sets typical value", 0.7},
		{"sets maximum", 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := ApplyOptions(WithTemperature(tt.value))
			require.NotNil(t, opts.Temperature)
			assert.Equal(t, tt.value, *opts.Temperature)
		})
	}
}
