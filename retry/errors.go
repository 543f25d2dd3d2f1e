package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"

	ai "github.com/volleyhq/volley"
)

// statusCoder is an interface for errors that carry an HTTP status code.
type statusCoder interface {
	StatusCode() int
}

// IsTransient determines if an error is transient and should be retried.
// It first checks if the error implements volley.CategorizedError for
// explicit categorization. If not, it falls back to heuristic detection:
// - Rate limits (HTTP 429)
// - Server errors (HTTP 5xx)
// - Network timeouts
// - Connection resets
// - DNS failures
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is a deliberate stop, never a retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// First, check if error implements CategorizedError for explicit categorization
	var ce ai.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ai.ErrorTransient
	}

	// Fall back to heuristic detection for uncategorized errors

	// Check for API errors with status codes
	var sc statusCoder
	if errors.As(err, &sc) {
		if isTransientStatusCode(sc.StatusCode()) {
			return true
		}
	}

	// Check network-level errors
	if isTransientNetworkError(err) {
		return true
	}

	return false
}

// isTransientStatusCode checks if an HTTP status code indicates a transient error.
func isTransientStatusCode(code int) bool {
	// 429 = Rate Limited
	if code == 429 {
		return true
	}
	// 5xx = Server Errors
	if code >= 500 && code < 600 {
		return true
	}
	return false
}

// isTransientNetworkError checks for network-level transient errors.
func isTransientNetworkError(err error) bool {
	// Check for timeout errors
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Check for URL errors (wrapping network errors)
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
			return true
		}
	}

	// Check for DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary()
	}

	// Check for syscall errors (connection reset, etc.)
	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNRESET, // Connection reset by peer
			syscall.ECONNREFUSED, // Connection refused
			syscall.ETIMEDOUT:    // Connection timed out
			return true
		}
	}

	// Check for common error message patterns (fallback)
	errMsg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset",
		"connection refused",
		"timeout",
		"temporary failure",
		"service unavailable",
		"too many requests",
		"rate limit",
		"bad gateway",
		"gateway timeout",
		"overloaded",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}

// retryAfterOf extracts a server-suggested retry delay, or 0.
func retryAfterOf(err error) time.Duration {
	return ai.RetryAfterOf(err)
}
