package ledger

import "errors"

var (
	// ErrInvalidDate indicates a date key that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)
