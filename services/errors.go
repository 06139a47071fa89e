package services

import "errors"

var (
	// ErrValidation means the input failed local checks. No request was sent.
	ErrValidation = errors.New("validation failed")

	// ErrNotConfirmed means a destructive action was attempted without the
	// caller acknowledging the confirmation step.
	ErrNotConfirmed = errors.New("action not confirmed")

	// ErrBusy means the same action is already in flight.
	ErrBusy = errors.New("action already in progress")
)
