// Package throttle provides functions to throttle function calls, i.e., to
// ensure that a function is executed at most once per interval no matter how
// often it is called.
//
// Throttling suits high-frequency events such as scroll or resize updates,
// where the function should keep running regularly during a burst of calls
// instead of waiting for the burst to end, which is what debouncing does.
package throttle

import (
	"time"
)

// New returns a throttled function that invokes f at most once per wait
// interval.
//
// The returned cancel function can be used to cancel any pending invocation of
// f and to restart the interval, but is not required to be called, so can be
// ignored if not needed.
//
// Both throttled and cancel functions are safe for concurrent use in
// goroutines, and can both be called multiple times.
//
// Trailing edge invocations of f run in a timer goroutine, so f needs to be
// thread-safe.
func New(
	wait time.Duration,
	f func(),
	opts ...Option,
) (throttled func(), cancel func(), err error) {
	if f == nil {
		return nil, nil, ErrNilFunc
	}

	t, err := NewThrottler[struct{}, struct{}, struct{}](
		wait,
		func(struct{}, struct{}) struct{} {
			f()

			return struct{}{}
		},
		opts...,
	)
	if err != nil {
		return nil, nil, err
	}

	throttled = func() {
		t.Call(struct{}{}, struct{}{})
	}

	return throttled, t.Cancel, nil
}
