// Package storage provides persistence for pipeline outcomes.
//
// Every processed query produces an Outcome record (status, category,
// duration). Absorbed failures are converted to fallback content for the
// caller, so the outcome trail is what remains for diagnosing quality
// regressions later.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OutcomeKind describes how a pipeline run ended.
type OutcomeKind string

const (
	// OutcomeSuccess means a generated response passed validation.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeFallback means canned content was served.
	OutcomeFallback OutcomeKind = "fallback"
	// OutcomeHardFailure means the run surfaced an error to the caller.
	OutcomeHardFailure OutcomeKind = "hard-failure"
)

// String returns the string representation of the outcome kind.
func (k OutcomeKind) String() string {
	return string(k)
}

// ParseOutcomeKind parses a string into an OutcomeKind.
func ParseOutcomeKind(s string) (OutcomeKind, error) {
	switch strings.ToLower(s) {
	case "success":
		return OutcomeSuccess, nil
	case "fallback":
		return OutcomeFallback, nil
	case "hard-failure":
		return OutcomeHardFailure, nil
	default:
		return "", fmt.Errorf("unknown outcome kind: %s", s)
	}
}

// Outcome records one pipeline run.
type Outcome struct {
	// ID is a unique identifier for this outcome.
	ID string `json:"id"`
	// QueryExcerpt is the truncated query text, safe for storage.
	QueryExcerpt string `json:"query_excerpt"`
	// Category is the classification the run used.
	Category string `json:"category"`
	// Kind is how the run ended.
	Kind OutcomeKind `json:"kind"`
	// Detail carries the failed rule or error text for non-success runs.
	Detail string `json:"detail,omitempty"`
	// DurationMs is the total run duration.
	DurationMs uint64 `json:"duration_ms"`
	// CreatedAt is the Unix timestamp when recorded.
	CreatedAt int64 `json:"created_at"`
}

// NewOutcome creates an outcome record with defaults.
func NewOutcome(queryExcerpt, category string, kind OutcomeKind) Outcome {
	return Outcome{
		ID:           uuid.New().String(),
		QueryExcerpt: queryExcerpt,
		Category:     category,
		Kind:         kind,
		CreatedAt:    time.Now().Unix(),
	}
}

// WithDetail attaches detail text (failed rule, error) to the outcome.
func (o Outcome) WithDetail(detail string) Outcome {
	o.Detail = detail
	return o
}

// WithDuration attaches the run duration to the outcome.
func (o Outcome) WithDuration(d time.Duration) Outcome {
	o.DurationMs = uint64(d.Milliseconds())
	return o
}

// OutcomeStorage persists pipeline outcomes.
type OutcomeStorage interface {
	// SaveOutcome stores one outcome record.
	SaveOutcome(ctx context.Context, outcome Outcome) error

	// ListOutcomes returns the most recent outcomes, newest first.
	// A limit <= 0 returns all records.
	ListOutcomes(ctx context.Context, limit int) ([]Outcome, error)

	// Close releases resources.
	Close() error
}
