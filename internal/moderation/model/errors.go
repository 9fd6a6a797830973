package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReason is returned when a report carries a reason outside the
	// enumerated set.
	ErrInvalidReason = errors.New("invalid report reason")

	// ErrAlreadyResolved is returned when a report is no longer pending.
	// Callers should refresh and show the report's actual resolution.
	ErrAlreadyResolved = errors.New("report already resolved")

	// ErrMissingReason is returned when a moderation action has no reason.
	ErrMissingReason = errors.New("moderation action requires a reason")

	// ErrUnsupportedContentType is returned when an action targets a content
	// kind it cannot apply to (e.g. hiding a user).
	ErrUnsupportedContentType = errors.New("unsupported content type for action")

	// ErrEnforcementFailure matches any *EnforcementError via errors.Is.
	ErrEnforcementFailure = errors.New("enforcement failed")

	// ErrInvalidOutcome is returned when a resolution outcome is not
	// resolved or dismissed.
	ErrInvalidOutcome = errors.New("outcome must be resolved or dismissed")

	// ErrNotFound is returned when a report, ban, warning or content item
	// does not exist.
	ErrNotFound = errors.New("not found")
)

// ErrValidation is returned for malformed input that does not map onto one of
// the named sentinels above (bad outcome, negative duration, ...).
type ErrValidation struct{ Msg string }

func (e *ErrValidation) Error() string { return e.Msg }

// EnforcementError reports that the physical effect of an action could not be
// applied. The surrounding transaction is always rolled back, so nothing from
// the failed call was persisted and the caller may retry.
type EnforcementError struct {
	Action ActionType
	Err    error
}

func (e *EnforcementError) Error() string {
	return fmt.Sprintf("enforce %s: %v", e.Action, e.Err)
}

func (e *EnforcementError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrEnforcementFailure) true for every EnforcementError.
func (e *EnforcementError) Is(target error) bool {
	return target == ErrEnforcementFailure
}

// IsValidation reports whether err is a caller-input error that was rejected
// before any write.
func IsValidation(err error) bool {
	var v *ErrValidation
	return errors.As(err, &v) ||
		errors.Is(err, ErrInvalidReason) ||
		errors.Is(err, ErrInvalidOutcome) ||
		errors.Is(err, ErrMissingReason) ||
		errors.Is(err, ErrUnsupportedContentType)
}
