package clock

import (
	"sync"
	"time"
)

// Mock is a Clock whose time only moves when Add or Set is called. Functions
// scheduled with AfterFunc run synchronously on the goroutine advancing the
// clock, in order of their due time, and with Now reporting their due time.
//
// Mock is safe for concurrent use, and scheduled functions may call back into
// the Mock.
type Mock struct {
	mux    sync.Mutex
	now    time.Time
	seq    uint64
	timers []*mockTimer
}

// NewMock returns a Mock set to start.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

type mockTimer struct {
	mock *Mock
	at   time.Time
	seq  uint64
	f    func()
}

func (m *Mock) Now() time.Time {
	m.mux.Lock()
	defer m.mux.Unlock()

	return m.now
}

func (m *Mock) AfterFunc(d time.Duration, f func()) Timer {
	m.mux.Lock()
	defer m.mux.Unlock()

	if d < 0 {
		d = 0
	}

	m.seq++
	t := &mockTimer{mock: m, at: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)

	return t
}

// Add moves the clock forward by d, running every timer that becomes due.
func (m *Mock) Add(d time.Duration) {
	m.Set(m.Now().Add(d))
}

// Set moves the clock to t, running every timer due at or before t. Setting a
// time earlier than the current one moves the clock backwards without running
// anything.
func (m *Mock) Set(t time.Time) {
	for {
		m.mux.Lock()
		next := m.nextDue(t)
		if next == nil {
			m.now = t
			m.mux.Unlock()

			return
		}

		m.remove(next)
		if next.at.After(m.now) {
			m.now = next.at
		}
		m.mux.Unlock()

		next.f()
	}
}

// Pending returns the number of scheduled timers that have not run or been
// stopped.
func (m *Mock) Pending() int {
	m.mux.Lock()
	defer m.mux.Unlock()

	return len(m.timers)
}

// nextDue returns the earliest timer due at or before t. It should only be
// called while the mutex is already locked.
func (m *Mock) nextDue(t time.Time) *mockTimer {
	var next *mockTimer
	for _, tm := range m.timers {
		if tm.at.After(t) {
			continue
		}
		if next == nil || tm.at.Before(next.at) ||
			(tm.at.Equal(next.at) && tm.seq < next.seq) {
			next = tm
		}
	}

	return next
}

// remove drops t from the timer list, reporting whether it was present. It
// should only be called while the mutex is already locked.
func (m *Mock) remove(t *mockTimer) bool {
	for i, tm := range m.timers {
		if tm == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)

			return true
		}
	}

	return false
}

func (t *mockTimer) Stop() bool {
	t.mock.mux.Lock()
	defer t.mock.mux.Unlock()

	return t.mock.remove(t)
}
