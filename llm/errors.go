// Transient error classification for gateway failures.
//
// The pipeline retries only transient failure classes (timeouts, connection
// errors, throttling). Parse failures and auth errors are structural: a
// retry rarely helps, so they are not classified as transient.

package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// IsTransient reports whether err is a retryable gateway failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) {
		return retryableStatus(openaiErr.HTTPStatusCode)
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return retryableStatus(anthropicErr.StatusCode)
	}

	// Wrapped transport errors from SDKs that don't expose a typed error.
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"timeout",
		"timed out",
		"connection refused",
		"connection reset",
		"temporarily unavailable",
		"too many requests",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// retryableStatus covers throttling and server-side failures.
func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}
