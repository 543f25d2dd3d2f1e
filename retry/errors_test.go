package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	ai "github.com/volleyhq/volley"
)

// mockAPIError simulates an API error with a status code.
type mockAPIError struct {
	code int
	msg  string
}

func (e *mockAPIError) Error() string   { return e.msg }
func (e *mockAPIError) StatusCode() int { return e.code }

// mockNetError simulates a network error with timeout/temporary flags.
type mockNetError struct {
	msg       string
	timeout   bool
	temporary bool
}

func (e *mockNetError) Error() string   { return e.msg }
func (e *mockNetError) Timeout() bool   { return e.timeout }
func (e *mockNetError) Temporary() bool { return e.temporary }

var _ net.Error = (*mockNetError)(nil)

func TestIsTransientStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected bool
	}{
		{200, false},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, isTransientStatusCode(tt.code))
		})
	}
}

func TestIsTransientWithCategorizedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "explicit transient",
			err:      ai.NewTransientError("overloaded", 503, nil),
			expected: true,
		},
		{
			name:     "explicit permanent overrides status heuristics",
			err:      ai.NewPermanentError("broken", 500, nil),
			expected: false,
		},
		{
			name:     "wrapped transient",
			err:      fmt.Errorf("turn failed: %w", ai.NewTransientError("limited", 429, nil)),
			expected: true,
		},
		{
			name:     "user input",
			err:      ai.NewUserInputError("bad prompt", 0, nil),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestIsTransientWithAPIError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"rate limit 429", &mockAPIError{code: 429, msg: "rate limited"}, true},
		{"server error 500", &mockAPIError{code: 500, msg: "internal server error"}, true},
		{"bad gateway 502", &mockAPIError{code: 502, msg: "bad gateway"}, true},
		{"service unavailable 503", &mockAPIError{code: 503, msg: "service unavailable"}, true},
		{"gateway timeout 504", &mockAPIError{code: 504, msg: "gateway timeout"}, true},
		{"bad request 400", &mockAPIError{code: 400, msg: "bad request"}, false},
		{"unauthorized 401", &mockAPIError{code: 401, msg: "unauthorized"}, false},
		{"forbidden 403", &mockAPIError{code: 403, msg: "forbidden"}, false},
		{"not found 404", &mockAPIError{code: 404, msg: "not found"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestIsTransientWithNetworkError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "timeout error",
			err:      &mockNetError{msg: "connection timeout", timeout: true},
			expected: true,
		},
		{
			name:     "temporary error",
			err:      &mockNetError{msg: "temporary failure", temporary: true},
			expected: true, // matched via error string pattern
		},
		{
			name:     "non-transient network error",
			err:      &mockNetError{msg: "invalid address", timeout: false, temporary: false},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestIsTransientWithStringPatterns(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"connection reset", errors.New("connection reset by peer"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"timeout in message", errors.New("request timeout"), true},
		{"rate limit in message", errors.New("rate limit exceeded"), true},
		{"too many requests", errors.New("too many requests"), true},
		{"service unavailable", errors.New("service unavailable"), true},
		{"bad gateway in message", errors.New("502 bad gateway"), true},
		{"gateway timeout in message", errors.New("504 gateway timeout"), true},
		{"overloaded in message", errors.New("the engine is overloaded"), true},
		{"generic error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestIsTransientWithCancellation(t *testing.T) {
	// Cancellation is a deliberate stop even though "context deadline
	// exceeded" contains a timeout-looking message
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(fmt.Errorf("request: %w", context.Canceled)))
	assert.False(t, IsTransient(nil))
}

func TestRetryAfterOf(t *testing.T) {
	t.Run("extracts suggested delay", func(t *testing.T) {
		err := ai.NewTransientErrorWithRetry("limited", 429, 3*time.Second, nil)
		assert.Equal(t, 3*time.Second, retryAfterOf(err))
	})

	t.Run("zero for plain errors", func(t *testing.T) {
		assert.Zero(t, retryAfterOf(errors.New("plain")))
	})
}
