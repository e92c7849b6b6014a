package tracker

import "errors"

var (
	// ErrUnknownSubject indicates attendance for a name no subject carries.
	ErrUnknownSubject = errors.New("unknown subject")
	// ErrFutureDate indicates attendance entered for a day after today.
	ErrFutureDate = errors.New("date is in the future")
	// ErrNoSelection indicates a quick entry with no subjects selected.
	ErrNoSelection = errors.New("no subjects selected")
	// ErrInvalidPolicy indicates an unknown rename policy.
	ErrInvalidPolicy = errors.New("invalid rename policy")
)
