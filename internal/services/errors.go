package services

import "errors"

// Domain errors surfaced to clients. Handlers map these to HTTP statuses
// with errors.Is; anything else is treated as an internal failure and not
// echoed to the caller.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrSlotNotFound          = errors.New("slot not found")
	ErrDoseSequence          = errors.New("dose not available for current vaccination status")
	ErrPastSlot              = errors.New("cannot register for past slots")
	ErrCapacityExceeded      = errors.New("no doses available in this slot")
	ErrDuplicateRegistration = errors.New("already registered for this slot")
	ErrRescheduleWindow      = errors.New("cannot modify slot within 24 hours")
	ErrNotRegistered         = errors.New("no registration found in this slot")
)
