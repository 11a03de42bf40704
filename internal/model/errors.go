package model

import "errors"

// Ledger error taxonomy. Every rejected operation surfaces exactly one of
// these and leaves the policy and stake set untouched.
var (
	ErrAlreadyInitialized = errors.New("policy already initialized")
	ErrUnauthorized       = errors.New("caller is not the policy authority")
	ErrInvalidPolicy      = errors.New("invalid policy")
	ErrEmergencyHalt      = errors.New("emergency controls active")
	ErrBelowMinimum       = errors.New("amount below minimum stake")
	ErrAboveMaximum       = errors.New("amount above maximum stake")
	ErrDailyLimitExceeded = errors.New("daily user limit exceeded")
	ErrTotalLimitExceeded = errors.New("total user limit exceeded")
	ErrNotFound           = errors.New("not found")
	ErrClockSkew          = errors.New("reference time precedes stake time")
	ErrValidation         = errors.New("validation error")
)
