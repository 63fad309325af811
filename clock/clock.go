// Package clock abstracts the two time primitives the debounce and throttle
// packages depend on: reading the current time, and scheduling a function to
// run after a delay.
//
// Real returns a Clock backed by the time package. Mock is a manually advanced
// Clock for deterministic tests and simulations.
package clock

import (
	"time"
)

// Timer is a handle to a function scheduled with Clock.AfterFunc.
type Timer interface {
	// Stop prevents the scheduled function from running. It returns false if
	// the function has already been started or the timer was already stopped.
	Stop() bool
}

// Clock provides the current time and deferred execution.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns a Clock that uses time.Now and time.AfterFunc. Scheduled
// functions run in their own goroutine.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// OrReal returns c, or Real() if c is nil.
func OrReal(c Clock) Clock {
	if c == nil {
		return Real()
	}

	return c
}
