// Package validate checks generated responses and research contexts
// against completeness rules.
//
// Both entry points are pure functions: no side effects, no mutation,
// deterministic for the same input. Rule failures are first-class
// ValidationResult values, not errors.
package validate

import (
	"fmt"
	"strings"

	"github.com/richinex/sibyl/model"
	"github.com/richinex/sibyl/research"
)

// ResponseRules declares the minimum-content rules for generated responses.
type ResponseRules struct {
	// MinLength is the minimum trimmed body length.
	MinLength int
	// FailureMarkers are substrings whose presence signals the generator
	// echoed an error instead of content. Matched case-insensitively.
	FailureMarkers []string
}

// DefaultResponseRules returns the standard rule set.
func DefaultResponseRules() ResponseRules {
	return ResponseRules{
		MinLength:      50,
		FailureMarkers: []string{"error", "incomplete"},
	}
}

// Response validates a generated response against the rules. The body must
// be non-empty, at least MinLength characters after trimming, and free of
// failure markers. Every violated rule appends one reason.
func Response(response model.GeneratedResponse, rules ResponseRules) model.ValidationResult {
	var violations []string

	if response.Failed {
		violations = append(violations, "generation failed before producing a body")
	}

	trimmed := strings.TrimSpace(response.Body)
	if trimmed == "" {
		violations = append(violations, "response body is empty")
	} else if len(trimmed) < rules.MinLength {
		violations = append(violations,
			fmt.Sprintf("response length %d is below the minimum of %d", len(trimmed), rules.MinLength))
	}

	lower := strings.ToLower(response.Body)
	for _, marker := range rules.FailureMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			violations = append(violations,
				fmt.Sprintf("response contains failure marker %q", marker))
		}
	}

	return model.ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}

// Context validates a research context for completeness. The missing-field
// set is exactly the required fields that are unsatisfied, in declaration
// order.
func Context(ctx *research.Context) model.ValidationResult {
	missing := ctx.MissingFields()

	var violations []string
	for _, field := range missing {
		violations = append(violations, fmt.Sprintf("required field %q is not satisfied", field))
	}

	return model.ValidationResult{
		Valid:         len(missing) == 0,
		Violations:    violations,
		MissingFields: missing,
	}
}
