// Package responses implements a streaming client for Responses-compatible
// completion endpoints. It speaks the wire protocol directly over HTTP
// server-sent events so the consumer keeps full control over stream
// interruption and abort.
package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	ai "github.com/volleyhq/volley"
)

// DefaultBaseURL is the OpenAI Responses endpoint.
const DefaultBaseURL = "https://api.openai.com/v1/responses"

// ErrPreviousResponseNotFound indicates the service no longer knows the
// response id a request tried to chain from. Callers should clear their
// ledger and resend with explicit input.
var ErrPreviousResponseNotFound = errors.New("previous response not found")

var defaultHTTPClient = &http.Client{}

// Client makes streaming requests to a Responses-compatible endpoint.
type Client struct {
	baseURL       string
	getAuthHeader func() string
	extraHeaders  map[string]string
	httpClient    *http.Client
}

// New creates a client authenticated with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:       DefaultBaseURL,
		getAuthHeader: func() string { return "Bearer " + apiKey },
		httpClient:    defaultHTTPClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different Responses-compatible endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAuthHeaderFunc sets a dynamic authorization header source,
// allowing token refresh between requests.
func WithAuthHeaderFunc(fn func() string) ClientOption {
	return func(c *Client) {
		c.getAuthHeader = fn
	}
}

// WithExtraHeaders sets provider-specific headers sent with every request.
func WithExtraHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		c.extraHeaders = headers
	}
}

// Stream issues a streaming request and returns the event stream.
// The stream is aborted by cancelling ctx or calling Close.
func (c *Client) Stream(ctx context.Context, req Request) (Stream, error) {
	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, ai.NewUserInputError("failed to marshal request", 0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, ai.NewUserInputError("failed to create request", 0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.getAuthHeader != nil {
		httpReq.Header.Set("Authorization", c.getAuthHeader())
	}
	for key, value := range c.extraHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ai.NewTransientError("request failed", 0, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, classifyHTTPError(resp, respBody, req.PreviousResponseID != "")
	}

	return newHTTPStream(resp.Body), nil
}

// classifyHTTPError maps a non-200 response to a categorized error.
func classifyHTTPError(resp *http.Response, body []byte, chained bool) error {
	code := resp.StatusCode
	msg := fmt.Sprintf("responses API error (status %d): %s", code, body)

	switch {
	case code == http.StatusNotFound && chained:
		return ai.NewPermanentError(msg, code, ErrPreviousResponseNotFound)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ai.NewPermanentError("authentication failed: token may be invalid or expired", code, nil)
	case code == http.StatusTooManyRequests:
		return ai.NewTransientErrorWithRetry(msg, code, retryAfterHeader(resp), nil)
	case code >= 500:
		return ai.NewTransientError(msg, code, nil)
	default:
		return ai.NewPermanentError(msg, code, nil)
	}
}

// retryAfterHeader parses a Retry-After header in seconds, or 0.
func retryAfterHeader(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
