// Package research implements the accumulating context for multi-step
// workflows ("research a company, then compose a report").
//
// A Context carries partial results across sequential steps. Its required
// field set is fixed at creation and every field access is checked against
// it, so a typo'd field name is an error rather than a silently ignored
// write. Composing a final report is only permitted once every required
// field is satisfied.
//
// A Context is owned by exactly one workflow run and is not safe for
// concurrent use.
package research

import (
	"fmt"
	"strings"
	"time"

	"github.com/richinex/sibyl/model"
)

// State describes how far a context has been filled in.
type State int

const (
	// StateEmpty means no required field is satisfied.
	StateEmpty State = iota
	// StatePartial means some but not all required fields are satisfied.
	StatePartial
	// StateComplete means every required field is satisfied.
	StateComplete
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartial:
		return "partial"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// StepRecord is one entry in the context's step history.
type StepRecord struct {
	Query       string
	TargetField string
	Output      FieldValue
	Success     bool
	At          time.Time
}

// AuditEntry records a field's previous value before an overwrite.
type AuditEntry struct {
	Field    string
	Previous FieldValue
	At       time.Time
}

// Metadata tracks step and update counts across the context's lifetime.
type Metadata struct {
	TotalSteps      int
	SuccessfulSteps int
	FailedSteps     int
	UpdateCount     int
}

// Context is the accumulating, field-validated record of partial results
// for one multi-step workflow.
type Context struct {
	required []string // declaration order, fixed at creation
	values   map[string]FieldValue
	history  []StepRecord
	audit    []AuditEntry
	meta     Metadata
}

// NewContext creates an empty context with the given required fields.
// Field names must be non-blank and unique; the declaration order is
// preserved for MissingFields and report rendering.
func NewContext(requiredFields []string) (*Context, error) {
	if len(requiredFields) == 0 {
		return nil, fmt.Errorf("research: no required fields: %w", model.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(requiredFields))
	required := make([]string, 0, len(requiredFields))
	for _, field := range requiredFields {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("research: blank field name: %w", model.ErrInvalidInput)
		}
		if seen[field] {
			return nil, fmt.Errorf("research: duplicate field name %q: %w", field, model.ErrInvalidInput)
		}
		seen[field] = true
		required = append(required, field)
	}

	return &Context{
		required: required,
		values:   make(map[string]FieldValue, len(required)),
	}, nil
}

// RequiredFields returns the declared required fields in declaration order.
func (c *Context) RequiredFields() []string {
	copied := make([]string, len(c.required))
	copy(copied, c.required)
	return copied
}

// Value returns the current value of a field and whether the field is
// part of the required set.
func (c *Context) Value(field string) (FieldValue, bool) {
	if !c.knows(field) {
		return FieldValue{}, false
	}
	return c.values[field], true
}

// Update overwrites a field's value, recording the previous value in the
// audit trail. Targeting a field outside the required set returns
// UnknownFieldError.
func (c *Context) Update(field string, value FieldValue) error {
	if !c.knows(field) {
		return &UnknownFieldError{Field: field}
	}

	c.audit = append(c.audit, AuditEntry{
		Field:    field,
		Previous: c.values[field],
		At:       time.Now(),
	})
	c.values[field] = value
	c.meta.UpdateCount++
	return nil
}

// RecordStep appends a step to the history. A successful step also updates
// the target field; a failed step never touches it, so a previously
// satisfied field survives later failures.
func (c *Context) RecordStep(stepQuery, targetField string, output FieldValue, success bool) error {
	if !c.knows(targetField) {
		return &UnknownFieldError{Field: targetField}
	}

	c.history = append(c.history, StepRecord{
		Query:       stepQuery,
		TargetField: targetField,
		Output:      output,
		Success:     success,
		At:          time.Now(),
	})
	c.meta.TotalSteps++

	if !success {
		c.meta.FailedSteps++
		return nil
	}

	c.meta.SuccessfulSteps++
	return c.Update(targetField, output)
}

// MissingFields returns the required fields currently unsatisfied, in
// declaration order, so error messages are stable.
func (c *Context) MissingFields() []string {
	var missing []string
	for _, field := range c.required {
		if !c.values[field].Satisfied() {
			missing = append(missing, field)
		}
	}
	return missing
}

// State reports the context's position in the EMPTY -> PARTIAL -> COMPLETE
// progression. COMPLETE is not sticky: clearing a field moves the context
// back to PARTIAL.
func (c *Context) State() State {
	missing := len(c.MissingFields())
	switch missing {
	case 0:
		return StateComplete
	case len(c.required):
		return StateEmpty
	default:
		return StatePartial
	}
}

// Metadata returns the step and update counters.
func (c *Context) Metadata() Metadata {
	return c.meta
}

// History returns a copy of the step history.
func (c *Context) History() []StepRecord {
	copied := make([]StepRecord, len(c.history))
	copy(copied, c.history)
	return copied
}

// AuditTrail returns a copy of the field overwrite audit trail.
func (c *Context) AuditTrail() []AuditEntry {
	copied := make([]AuditEntry, len(c.audit))
	copy(copied, c.audit)
	return copied
}

// Compose renders a report from the satisfied fields. It returns
// IncompleteError unless every required field is satisfied; the error's
// missing set equals MissingFields exactly.
func (c *Context) Compose(kind model.ReportKind) (model.Artifact, error) {
	if missing := c.MissingFields(); len(missing) > 0 {
		return model.Artifact{}, &IncompleteError{Missing: missing}
	}

	body, err := c.render(kind)
	if err != nil {
		return model.Artifact{}, err
	}

	return model.Artifact{
		Kind:       kind,
		Body:       body,
		ComposedAt: time.Now(),
	}, nil
}

// Reset returns the context to the empty state. The required field set is
// unchanged; values, history, audit trail, and counters are cleared.
func (c *Context) Reset() {
	c.values = make(map[string]FieldValue, len(c.required))
	c.history = nil
	c.audit = nil
	c.meta = Metadata{}
}

func (c *Context) knows(field string) bool {
	for _, f := range c.required {
		if f == field {
			return true
		}
	}
	return false
}
