package research

import (
	"fmt"
	"strings"
)

// UnknownFieldError indicates an update or step targeting a field outside
// the context's declared required set.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown context field: %q", e.Field)
}

// IncompleteError indicates an attempt to compose a report from a context
// with unsatisfied required fields. Missing preserves declaration order.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("cannot compose report, missing fields: %s", strings.Join(e.Missing, ", "))
}
