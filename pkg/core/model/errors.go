package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a referenced record does not exist in the
// caller's tenant scope. A missing employee or shift is a caller error,
// never "zero eligibility" or "zero cost".
var ErrNotFound = errors.New("record not found")

// NotFoundError wraps ErrNotFound with the kind and id of the missing
// record. Use errors.Is(err, ErrNotFound) to detect it.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidIntervalError reports an interval whose end is not after its
// start, or a break deduction that exceeds the interval's raw duration.
type InvalidIntervalError struct {
	Start  time.Time
	End    time.Time
	Reason string
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval [%s, %s): %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Reason)
}

// InconsistentAssignmentError reports a reassignment request whose stated
// current assignee does not match the shift's persisted assignee.
type InconsistentAssignmentError struct {
	ShiftID    string
	WantedID   string
	AssignedID string
}

func (e *InconsistentAssignmentError) Error() string {
	return fmt.Sprintf("shift %s is assigned to employee %q, not %q",
		e.ShiftID, e.AssignedID, e.WantedID)
}
