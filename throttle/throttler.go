package throttle

import (
	"fmt"
	"sync"
	"time"

	"github.com/romdo/go-ratefunc/clock"
	"github.com/romdo/go-ratefunc/observe"
)

// Func is a function that can be throttled. The receiver and arguments given
// to Throttler.Call are passed through unchanged.
type Func[C, A, R any] func(recv C, args A) R

// Throttler limits invocations of a function to at most one per wait
// interval.
//
// All methods are safe for concurrent use. The wrapped function is never
// invoked while the Throttler holds its internal lock, so it may itself call
// Call or Cancel.
type Throttler[C, A, R any] struct {
	// Configuration
	wait     time.Duration
	fn       Func[C, A, R]
	leading  bool
	trailing bool
	clock    clock.Clock
	name     string
	observer observe.Observer
	onPanic  func(v any)

	// State
	mux        sync.Mutex
	timer      clock.Timer
	gen        uint64
	pending    bool
	invoked    bool // false means lastInvoke is "never"
	lastInvoke time.Time
	lastResult R
}

// NewThrottler returns a Throttler for f which invokes f at most once per
// wait interval. By default f runs both on the leading edge, synchronously
// with the first call, and on the trailing edge, wait after the previous
// invocation if more calls arrived in between.
//
// It returns ErrInvalidWait if wait is negative and ErrNilFunc if f is nil.
func NewThrottler[C, A, R any](
	wait time.Duration,
	f Func[C, A, R],
	opts ...Option,
) (*Throttler[C, A, R], error) {
	if wait < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWait, wait)
	}
	if f == nil {
		return nil, ErrNilFunc
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Throttler[C, A, R]{
		wait:     wait,
		fn:       f,
		leading:  o.leading,
		trailing: o.trailing,
		clock:    clock.OrReal(o.clock),
		name:     o.name,
		observer: observe.OrNop(o.observer),
		onPanic:  o.onPanic,
	}

	// Without a leading edge, the first interval starts at creation.
	if !t.leading {
		t.invoked = true
		t.lastInvoke = t.clock.Now()
	}

	return t, nil
}

// Call records a call with the given receiver and arguments. If wait has
// passed since the last invocation, the wrapped function is invoked
// synchronously. Otherwise, with trailing enabled, an invocation with these
// arguments is scheduled for the end of the interval, replacing any invocation
// scheduled by an earlier call.
//
// Call returns the result of the most recent invocation of the wrapped
// function, which is the zero value of R if it has never been invoked.
func (t *Throttler[C, A, R]) Call(recv C, args A) R {
	// Reported before any timer this call schedules can fire.
	t.emit(observe.Call, t.clock.Now(), nil)

	t.mux.Lock()

	now := t.clock.Now()
	elapsed := now.Sub(t.lastInvoke)
	t.stop()

	// A negative elapsed time means the clock went backwards.
	if !t.invoked || elapsed > t.wait || elapsed < 0 {
		t.invoked = true
		t.lastInvoke = now
		t.mux.Unlock()

		t.emit(observe.Leading, now, nil)

		result := t.fn(recv, args)

		t.mux.Lock()
		t.lastResult = result
		t.mux.Unlock()

		return result
	}

	if !t.trailing {
		result := t.lastResult
		t.mux.Unlock()

		t.emit(observe.Dropped, now, nil)

		return result
	}

	t.gen++
	t.pending = true
	gen := t.gen
	t.timer = t.clock.AfterFunc(t.wait-elapsed, func() {
		t.fire(gen, recv, args)
	})
	result := t.lastResult
	t.mux.Unlock()

	return result
}

// Cancel discards any pending trailing invocation and forgets the last
// invocation time, so that with leading enabled the next call invokes the
// wrapped function immediately. Once Cancel returns, no invocation scheduled
// before it will run. Calling Cancel repeatedly has the same effect as calling
// it once.
func (t *Throttler[C, A, R]) Cancel() {
	t.mux.Lock()
	wasPending := t.pending
	t.stop()
	t.invoked = false
	t.lastInvoke = time.Time{}
	t.mux.Unlock()

	if wasPending {
		t.emit(observe.Canceled, t.clock.Now(), nil)
	}
}

// Pending reports whether a trailing invocation is scheduled.
func (t *Throttler[C, A, R]) Pending() bool {
	t.mux.Lock()
	defer t.mux.Unlock()

	return t.pending
}

// stop stops the current timer, if any, and invalidates it in case its
// function has already started. It should only be called while the mutex is
// already locked.
func (t *Throttler[C, A, R]) stop() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.pending = false
}

// fire runs the trailing invocation scheduled as generation gen, unless it
// has since been replaced or canceled.
func (t *Throttler[C, A, R]) fire(gen uint64, recv C, args A) {
	t.mux.Lock()
	if gen != t.gen || !t.pending {
		t.mux.Unlock()

		return
	}

	now := t.clock.Now()
	t.pending = false
	t.timer = nil
	t.invoked = true
	t.lastInvoke = now
	t.mux.Unlock()

	t.emit(observe.Trailing, now, nil)

	result, ok := t.invokeDeferred(recv, args)
	if !ok {
		return
	}

	t.mux.Lock()
	t.lastResult = result
	t.mux.Unlock()
}

// invokeDeferred runs the wrapped function from a timer, recovering panics if
// a panic handler is configured. It reports false if a panic was recovered.
func (t *Throttler[C, A, R]) invokeDeferred(recv C, args A) (result R, ok bool) {
	if t.onPanic != nil {
		defer func() {
			if v := recover(); v != nil {
				t.emit(observe.Panicked, t.clock.Now(), v)
				t.onPanic(v)
				ok = false
			}
		}()
	}

	return t.fn(recv, args), true
}

func (t *Throttler[C, A, R]) emit(kind observe.Kind, at time.Time, v any) {
	t.observer.Observe(observe.Event{
		Name:  t.name,
		Kind:  kind,
		Time:  at,
		Value: v,
	})
}
