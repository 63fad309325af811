// Package observe defines optional hooks through which debouncers and
// throttlers report what they do with each call: run it now, run it later,
// drop it, or lose it to a cancel.
package observe

import (
	"time"
)

// Kind identifies what happened to a wrapped function.
type Kind int

const (
	// Call is reported for every call of a debounced or throttled function.
	Call Kind = iota
	// Leading is reported when the wrapped function runs synchronously on
	// the caller's goroutine.
	Leading
	// Trailing is reported when the wrapped function runs from a timer.
	Trailing
	// Dropped is reported when a call is absorbed without scheduling a run.
	Dropped
	// Canceled is reported when Cancel discards a pending run.
	Canceled
	// Panicked is reported when a panic from a timer run is recovered.
	Panicked
)

var kindNames = map[Kind]string{
	Call:     "call",
	Leading:  "leading",
	Trailing: "trailing",
	Dropped:  "dropped",
	Canceled: "canceled",
	Panicked: "panicked",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return "unknown"
}

// Event describes one thing that happened to a named wrapped function.
type Event struct {
	Name string
	Kind Kind
	Time time.Time

	// Value holds the recovered panic value for Panicked events.
	Value any
}

// Observer receives events. Observe may be called from any goroutine, but
// never while a debouncer or throttler holds its internal lock.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(e Event)

func (f ObserverFunc) Observe(e Event) {
	f(e)
}

type nop struct{}

func (nop) Observe(Event) {}

// Nop returns an Observer that discards every event.
func Nop() Observer {
	return nop{}
}

// OrNop returns o, or Nop() if o is nil.
func OrNop(o Observer) Observer {
	if o == nil {
		return Nop()
	}

	return o
}

type multi []Observer

func (m multi) Observe(e Event) {
	for _, o := range m {
		o.Observe(e)
	}
}

// Multi returns an Observer that forwards each event to all non-nil observers
// in order.
func Multi(observers ...Observer) Observer {
	m := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}

	return m
}
