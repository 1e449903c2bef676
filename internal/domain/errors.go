package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrForbidden   = errors.New("forbidden")
	ErrConflict    = errors.New("status changed concurrently")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("store unavailable")
)

// InvalidTransitionError identifies a status change that is not in the legal
// transition table and not covered by the admin override.
type InvalidTransitionError struct {
	Current   string
	Requested string
	Role      Role
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s by %s", e.Current, e.Requested, e.Role)
}
