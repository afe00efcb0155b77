package services

import "errors"

var (
	// ErrInvalidArgument marks caller mistakes; handlers answer 400.
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid status transition")
)
