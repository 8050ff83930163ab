// Package model provides domain types shared across packages.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput indicates malformed caller input (empty query text,
// blank or duplicate field names). Rejected immediately, never retried.
var ErrInvalidInput = errors.New("invalid input")

// Category is the closed set of query categories.
type Category string

const (
	// CategoryTechnical marks programming and library questions.
	CategoryTechnical Category = "technical"
	// CategoryGeneral marks everything else.
	CategoryGeneral Category = "general"
)

// Valid reports whether the category is one of the declared values.
func (c Category) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a category from string (case-insensitive).
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "technical":
		return CategoryTechnical, nil
	case "general":
		return CategoryGeneral, nil
	default:
		return "", fmt.Errorf("unknown category: %q", s)
	}
}

// Query represents one inbound request. Immutable once created.
type Query struct {
	Text       string
	ReceivedAt time.Time
}

// NewQuery creates a query stamped with the arrival time.
func NewQuery(text string) Query {
	return Query{
		Text:       text,
		ReceivedAt: time.Now(),
	}
}

// Excerpt returns the query text truncated to maxLen runes, for log records.
func (q Query) Excerpt(maxLen int) string {
	runes := []rune(q.Text)
	if len(runes) <= maxLen {
		return q.Text
	}
	return string(runes[:maxLen]) + "..."
}

// Classification is the result of categorizing a Query.
// Created once per query, never mutated afterward.
type Classification struct {
	Category   Category
	Confidence float64 // in [0,1]
	Reasoning  string
	Topics     []string
}

// GeneratedResponse is the candidate answer produced by the LLM gateway.
// Failed marks a gateway-level failure, distinct from a response that
// succeeded but fails validation.
type GeneratedResponse struct {
	Body   string
	Kind   string
	Failed bool
}

// ValidationResult reports the outcome of a validation call.
// Valid is the conjunction of all rules; Violations holds one
// human-readable reason per failed rule. MissingFields is populated
// only by context validation.
type ValidationResult struct {
	Valid         bool
	Violations    []string
	MissingFields []string
}

// ReportKind selects how a research context is rendered.
type ReportKind string

const (
	// ReportComprehensive renders every field verbatim.
	ReportComprehensive ReportKind = "comprehensive"
	// ReportSummary renders a truncated view of each field.
	ReportSummary ReportKind = "summary"
)

// ParseReportKind parses a report kind from string.
func ParseReportKind(s string) (ReportKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comprehensive":
		return ReportComprehensive, nil
	case "summary":
		return ReportSummary, nil
	default:
		return "", fmt.Errorf("unknown report kind: %q", s)
	}
}

// Artifact is a composed report rendered from a complete research context.
type Artifact struct {
	Kind       ReportKind
	Body       string
	ComposedAt time.Time
}
