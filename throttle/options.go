package throttle

import (
	"github.com/romdo/go-ratefunc/clock"
	"github.com/romdo/go-ratefunc/observe"
)

type options struct {
	leading  bool
	trailing bool
	clock    clock.Clock
	name     string
	observer observe.Observer
	onPanic  func(v any)
}

func defaultOptions() options {
	return options{leading: true, trailing: true}
}

// Option configures a Throttler.
type Option func(*options)

// WithLeading returns an option controlling whether the first call after a
// quiet interval invokes the wrapped function synchronously. Enabled by
// default.
//
// With leading disabled, the first invocation happens wait after the
// throttler is created or after the interval started by the last invocation,
// through the trailing edge.
func WithLeading(enabled bool) Option {
	return func(o *options) {
		o.leading = enabled
	}
}

// WithTrailing returns an option controlling whether calls arriving within
// the interval are coalesced into one invocation at the end of it, using the
// arguments of the last of those calls. Enabled by default.
//
// With trailing disabled, such calls are dropped.
//
// Disabling both leading and trailing is allowed but rarely useful: calls in
// the first interval after creation are dropped, and later calls behave as
// with leading only.
func WithTrailing(enabled bool) Option {
	return func(o *options) {
		o.trailing = enabled
	}
}

// WithClock returns an option that makes the throttler read time and schedule
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
// wrapped function on the trailing edge, and passes the recovered value to h.
// Without it, such a panic terminates the program like any other unrecovered
// panic in a goroutine.
//
// Panics from leading edge invocations always propagate to the caller.
func WithPanicHandler(h func(v any)) Option {
	return func(o *options) {
		o.onPanic = h
	}
}
