package repository

import "errors"

// Conflict errors raised by conditional updates. The condition is checked in
// the same statement that mutates, so two admins racing each other cannot
// both get past a guard.
var (
	ErrShiftFull         = errors.New("shift already has its required staff approved")
	ErrSignupNotPending  = errors.New("signup is no longer pending")
	ErrHoursNotApproved  = errors.New("hours must be approved before payroll")
	ErrNotReleaseRequest = errors.New("signup has no pending release request")
)
