package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrValidation         = errors.New("validation failed")
	ErrNotAssigned        = errors.New("booking is not assigned to this garage")
	ErrNotApproved        = errors.New("garage is not approved")
)

// ErrAlreadyCompleted wraps ErrInvalidTransition so callers checking for the
// general guard failure still match the resubmission case.
var ErrAlreadyCompleted = fmt.Errorf("onboarding already completed: %w", ErrInvalidTransition)
