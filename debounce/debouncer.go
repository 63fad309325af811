package debounce

import (
	"fmt"
	"sync"
	"time"

	"github.com/romdo/go-ratefunc/clock"
	"github.com/romdo/go-ratefunc/observe"
)

// Func is a function that can be debounced. The receiver and arguments given
// to Debouncer.Call are passed through unchanged.
type Func[C, A, R any] func(recv C, args A) R

// Debouncer collapses bursts of calls into at most one invocation of a
// function per quiet period.
//
// All methods are safe for concurrent use. The wrapped function is never
// invoked while the Debouncer holds its internal lock, so it may itself call
// Call or Cancel.
type Debouncer[C, A, R any] struct {
	// Configuration
	wait      time.Duration
	fn        Func[C, A, R]
	immediate bool
	clock     clock.Clock
	name      string
	observer  observe.Observer
	onPanic   func(v any)

	// State
	mux        sync.Mutex
	timer      clock.Timer
	gen        uint64
	pending    bool
	lastResult R
}

// NewDebouncer returns a Debouncer for f which waits for wait to pass without
// any call before invoking f, or with the Immediate option, invokes f at the
// start of a burst and then waits.
//
// It returns ErrInvalidWait if wait is negative and ErrNilFunc if f is nil.
func NewDebouncer[C, A, R any](
	wait time.Duration,
	f Func[C, A, R],
	opts ...Option,
) (*Debouncer[C, A, R], error) {
	if wait < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWait, wait)
	}
	if f == nil {
		return nil, ErrNilFunc
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return &Debouncer[C, A, R]{
		wait:      wait,
		fn:        f,
		immediate: o.immediate,
		clock:     clock.OrReal(o.clock),
		name:      o.name,
		observer:  observe.OrNop(o.observer),
		onPanic:   o.onPanic,
	}, nil
}

// Call records a call with the given receiver and arguments, and returns the
// result of the last immediate invocation of the wrapped function. Without the
// Immediate option the returned value is always the zero value of R.
func (d *Debouncer[C, A, R]) Call(recv C, args A) R {
	// Reported before any timer this call schedules can fire.
	d.emit(observe.Call, d.clock.Now(), nil)

	d.mux.Lock()

	now := d.clock.Now()
	wasPending := d.pending
	d.stop()

	if !d.immediate {
		gen := d.schedule()
		d.timer = d.clock.AfterFunc(d.wait, func() {
			if d.fire(gen) {
				d.invokeDeferred(recv, args)
			}
		})
		result := d.lastResult
		d.mux.Unlock()

		return result
	}

	gen := d.schedule()
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.fire(gen)
	})

	if wasPending {
		result := d.lastResult
		d.mux.Unlock()

		d.emit(observe.Dropped, now, nil)

		return result
	}
	d.mux.Unlock()

	d.emit(observe.Leading, now, nil)

	result := d.fn(recv, args)

	d.mux.Lock()
	d.lastResult = result
	d.mux.Unlock()

	return result
}

// Cancel discards any pending invocation and ends the current quiet period,
// so that with the Immediate option the next call invokes the wrapped
// function again. Once Cancel returns, no invocation scheduled before it will
// run. Calling Cancel when nothing is pending does nothing.
func (d *Debouncer[C, A, R]) Cancel() {
	d.mux.Lock()
	wasPending := d.pending
	d.stop()
	d.mux.Unlock()

	if wasPending {
		d.emit(observe.Canceled, d.clock.Now(), nil)
	}
}

// Pending reports whether a timer is outstanding, i.e. whether a trailing
// invocation is due or, with the Immediate option, a quiet period is running.
func (d *Debouncer[C, A, R]) Pending() bool {
	d.mux.Lock()
	defer d.mux.Unlock()

	return d.pending
}

// stop stops the current timer, if any, and invalidates it in case its
// function has already started. It should only be called while the mutex is
// already locked.
func (d *Debouncer[C, A, R]) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
}

// schedule marks a timer as pending and returns the generation it must match
// when it fires. It should only be called while the mutex is already locked.
func (d *Debouncer[C, A, R]) schedule() uint64 {
	d.gen++
	d.pending = true

	return d.gen
}

// fire clears the pending state if gen is still the current timer generation,
// and reports whether it was.
func (d *Debouncer[C, A, R]) fire(gen uint64) bool {
	d.mux.Lock()
	defer d.mux.Unlock()

	if gen != d.gen || !d.pending {
		return false
	}

	d.pending = false
	d.timer = nil

	return true
}

// invokeDeferred runs the wrapped function from a timer, recovering panics if
// a panic handler is configured.
func (d *Debouncer[C, A, R]) invokeDeferred(recv C, args A) {
	d.emit(observe.Trailing, d.clock.Now(), nil)

	if d.onPanic != nil {
		defer func() {
			if v := recover(); v != nil {
				d.emit(observe.Panicked, d.clock.Now(), v)
				d.onPanic(v)
			}
		}()
	}

	d.fn(recv, args)
}

func (d *Debouncer[C, A, R]) emit(kind observe.Kind, at time.Time, v any) {
	d.observer.Observe(observe.Event{
		Name:  d.name,
		Kind:  kind,
		Time:  at,
		Value: v,
	})
}
