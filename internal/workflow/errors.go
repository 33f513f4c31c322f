package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when the user declines a confirmation prompt.
// No state has been mutated.
var ErrCancelled = errors.New("action cancelled by user")

// ValidationError reports every missing or malformed input of an action at
// once, so the operator can fix the whole form in one pass.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}

// NewValidationError wraps a non-empty violation list; returns nil when the
// list is empty so callers can `return NewValidationError(v)` directly.
func NewValidationError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// InvalidStateError reports a transition attempted on an entity whose current
// status does not permit it. Multi-record actions raise it before mutating
// anything.
type InvalidStateError struct {
	Entity string
	ID     string
	Status string
	Action string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is in status %s and cannot %s", e.Entity, e.ID, e.Status, e.Action)
}
