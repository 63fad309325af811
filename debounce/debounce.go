// Package debounce provides functions to debounce function calls, i.e., to
// ensure that a function is only executed after a certain amount of time has
// passed since the last call.
//
// Debouncing can be useful in scenarios where function calls may be triggered
// rapidly, such as in response to user input, but the underlying operation is
// expensive and only needs to be performed once per batch of calls.
//
// With the Immediate option the function is instead executed right away on
// the first call of a batch, and the rest of the batch is ignored.
package debounce

import (
	"time"
)

// New returns a debounced function that delays invoking f until after wait time
// has elapsed since the last time the debounced function was invoked.
//
// The returned cancel function can be used to cancel any pending invocation of
// f, but is not required to be called, so can be ignored if not needed.
//
// Both debounced and cancel functions are safe for concurrent use in
// goroutines, and can both be called multiple times.
//
// Unless the Immediate option is given, f is invoked from a timer goroutine, so
// it needs to be thread-safe.
func New(
	wait time.Duration,
	f func(),
	opts ...Option,
) (debounced func(), cancel func(), err error) {
	if f == nil {
		return nil, nil, ErrNilFunc
	}

	d, err := NewDebouncer[struct{}, struct{}, struct{}](
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

	debounced = func() {
		d.Call(struct{}{}, struct{}{})
	}

	return debounced, d.Cancel, nil
}
