package auth

import "errors"

var (
	// ErrMissingCaller is returned when no caller credential is present.
	ErrMissingCaller = errors.New("caller identification required")

	// ErrInvalidCaller is returned when a credential cannot be resolved.
	ErrInvalidCaller = errors.New("invalid caller credential")
)
