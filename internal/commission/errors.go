package commission

import (
	"errors"
	"strings"
)

// ErrEmptySplit is reported when an explicit split names no beneficiary.
var ErrEmptySplit = errors.New("commission split must have at least one beneficiary")

// ValidationError carries every violated input rule, not just the first one.
type ValidationError struct {
	Errors []string
	cause  error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error { return e.cause }

// PolicyViolation reports an edit or transition the current state does not allow.
type PolicyViolation struct {
	Violations []string
}

func (e *PolicyViolation) Error() string {
	return "policy violation: " + strings.Join(e.Violations, "; ")
}

// PreconditionError means the calculator received input that should have been
// rejected by validation. It indicates a caller bug.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

func policyError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &PolicyViolation{Violations: violations}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPolicy reports whether err is (or wraps) a *PolicyViolation.
func IsPolicy(err error) bool {
	var pv *PolicyViolation
	return errors.As(err, &pv)
}

// IsPrecondition reports whether err is (or wraps) a *PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
