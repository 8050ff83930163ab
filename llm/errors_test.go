package llm

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestIsTransientNil(t *testing.T) {
	if IsTransient(nil) {
		t.Error("nil error should not be transient")
	}
}

func TestIsTransientDeadline(t *testing.T) {
	err := fmt.Errorf("chat completion failed: %w", context.DeadlineExceeded)
	if !IsTransient(err) {
		t.Error("deadline exceeded should be transient")
	}
}

func TestIsTransientConnectionErrors(t *testing.T) {
	for _, err := range []error{
		fmt.Errorf("dial: %w", syscall.ECONNREFUSED),
		fmt.Errorf("read: %w", syscall.ECONNRESET),
		errors.New("request timed out"),
		errors.New("429 Too Many Requests"),
	} {
		if !IsTransient(err) {
			t.Errorf("expected %v to be transient", err)
		}
	}
}

func TestIsTransientOpenAIStatusCodes(t *testing.T) {
	cases := []struct {
		status    int
		transient bool
	}{
		{429, true},
		{500, true},
		{503, true},
		{400, false},
		{401, false},
		{404, false},
	}

	for _, tc := range cases {
		err := fmt.Errorf("wrapped: %w", &openai.APIError{HTTPStatusCode: tc.status})
		if got := IsTransient(err); got != tc.transient {
			t.Errorf("status %d: expected transient=%v, got %v", tc.status, tc.transient, got)
		}
	}
}

func TestIsTransientStructuralErrors(t *testing.T) {
	for _, err := range []error{
		errors.New("failed to unmarshal JSON"),
		errors.New("invalid api key"),
	} {
		if IsTransient(err) {
			t.Errorf("expected %v to be non-transient", err)
		}
	}
}
