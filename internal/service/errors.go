package service

import (
	"errors"
	"fmt"
)

var (
	// ErrPlanInactive is returned when the caller has no subscription or
	// an inactive one.
	ErrPlanInactive = errors.New("your plan is inactive, please activate your plan first")
	// ErrForbidden is returned when the caller lacks the permission an
	// operation requires.
	ErrForbidden = errors.New("forbidden")
	// ErrProfileNotFound is returned when a profile lookup finds no row.
	ErrProfileNotFound = errors.New("profile not found")
)

// InsufficientCreditsError is returned when a generation costs more
// than the subscription has left.
type InsufficientCreditsError struct {
	Needed    int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: you need %d credits, but have %d", e.Needed, e.Available)
}

// UpstreamError carries the generation backend's error detail verbatim.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}
