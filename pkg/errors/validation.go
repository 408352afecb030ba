package errors

import (
	"fmt"
	"strings"
)

// Issue is one violated field rule on one card record.
type Issue struct {
	Index  int    `json:"index"`           // 1-based position of the record in its batch
	Field  string `json:"field,omitempty"` // offending field, empty for record-level problems
	Reason string `json:"reason"`
}

// String formats the issue as a single report line, e.g.
// "card 3: invalid email 'x@'".
func (i Issue) String() string {
	return fmt.Sprintf("card %d: %s", i.Index, i.Reason)
}

// ValidationError aggregates every rule violation found in a batch so callers
// can report all of them in one pass.
type ValidationError struct {
	Issues []Issue
}

// NewValidationError returns a ValidationError for the given issues.
func NewValidationError(issues ...Issue) *ValidationError {
	return &ValidationError{Issues: issues}
}

// Error implements the error interface. The message lists one issue per line.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].String()
	}
	lines := make([]string, 0, len(e.Issues)+1)
	lines = append(lines, "validation failed:")
	for _, is := range e.Issues {
		lines = append(lines, is.String())
	}
	return strings.Join(lines, "\n")
}

// Code returns ErrCodeValidationFailed.
func (e *ValidationError) Code() Code {
	return ErrCodeValidationFailed
}

// Add appends an issue.
func (e *ValidationError) Add(is Issue) {
	e.Issues = append(e.Issues, is)
}

// Merge appends all issues of other.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Issues = append(e.Issues, other.Issues...)
}

// ErrOrNil returns e as an error when it holds at least one issue, else nil.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
}
