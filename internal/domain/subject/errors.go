package subject

import "errors"

var (
	// ErrInvalidField indicates an update named an unknown subject field.
	ErrInvalidField = errors.New("invalid subject field")
)
