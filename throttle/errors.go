package throttle

import "errors"

var (
	// ErrInvalidWait is returned when the wait duration is negative.
	ErrInvalidWait = errors.New("throttle: wait must not be negative")

	// ErrNilFunc is returned when no function is given to throttle.
	ErrNilFunc = errors.New("throttle: function must not be nil")
)
