package debounce

import (
	"github.com/romdo/go-ratefunc/clock"
	"github.com/romdo/go-ratefunc/observe"
)

type options struct {
	immediate bool
	clock     clock.Clock
	name      string
	observer  observe.Observer
	onPanic   func(v any)
}

// Option configures a Debouncer.
type Option func(*options)

// Immediate returns an option that makes the debouncer invoke the wrapped
// function synchronously on the first call of a burst, and then ignore further
// calls until the wait duration has passed without any call.
//
// Without Immediate, a burst of calls invokes the function once, wait after
// the last call, with the arguments of that last call.
func Immediate() Option {
	return func(o *options) {
		o.immediate = true
	}
}

// WithClock returns an option that makes the debouncer read time and schedule
// its timer through c instead of the time package.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithName returns an option that sets the name reported in observer events.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithObserver returns an option that reports every call, invocation, drop,
// cancel and recovered panic to obs.
func WithObserver(obs observe.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithPanicHandler returns an option that recovers panics raised by the
// wrapped function when it is invoked from the timer, and passes the recovered
// value to h. Without it, such a panic terminates the program like any other
// unrecovered panic in a goroutine.
//
// Panics from immediate invocations always propagate to the caller.
func WithPanicHandler(h func(v any)) Option {
	return func(o *options) {
		o.onPanic = h
	}
}
