package debounce

import "errors"

var (
	// ErrInvalidWait is returned when the wait duration is negative.
	ErrInvalidWait = errors.New("debounce: wait must not be negative")

	// ErrNilFunc is returned when no function is given to debounce.
	ErrNilFunc = errors.New("debounce: function must not be nil")
)
