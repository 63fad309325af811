// Package sim replays a trace of call times through a debouncer or throttler
// on a mock clock, recording when the wrapped function would have run.
package sim

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/romdo/go-ratefunc/clock"
	"github.com/romdo/go-ratefunc/debounce"
	"github.com/romdo/go-ratefunc/internal/config"
	"github.com/romdo/go-ratefunc/observe"
	"github.com/romdo/go-ratefunc/throttle"
)

// Firing is one run of the wrapped function.
type Firing struct {
	// At is the offset from the start of the trace.
	At time.Duration
	// Event is the index of the call whose arguments the run received.
	Event int
}

var start = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type invoker interface {
	Call(recv struct{}, event int) struct{}
	Cancel()
}

// Run replays events, given as offsets from the start of the trace, through
// the invoker described by cfg and returns the resulting firings in order.
// Events are replayed in time order; their index is their position in the
// events slice.
func Run(
	cfg *config.Root,
	events []time.Duration,
	obs observe.Observer,
) ([]Firing, error) {
	m := clock.NewMock(start)

	var mux sync.Mutex
	firings := []Firing{}
	f := func(_ struct{}, event int) struct{} {
		mux.Lock()
		defer mux.Unlock()

		firings = append(firings, Firing{At: m.Now().Sub(start), Event: event})

		return struct{}{}
	}

	inv, err := newInvoker(cfg, f, m, obs)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return events[order[a]] < events[order[b]]
	})

	for _, i := range order {
		m.Set(start.Add(events[i]))
		inv.Call(struct{}{}, i)
	}

	// Run out the last pending timer.
	m.Add(cfg.Wait()*2 + time.Second)

	mux.Lock()
	defer mux.Unlock()

	return firings, nil
}

func newInvoker(
	cfg *config.Root,
	f func(struct{}, int) struct{},
	c clock.Clock,
	obs observe.Observer,
) (invoker, error) {
	switch cfg.Kind {
	case config.KindThrottle:
		opts := append(cfg.Throttle.Options(),
			throttle.WithClock(c),
			throttle.WithName(cfg.Name),
			throttle.WithObserver(obs),
		)

		t, err := throttle.NewThrottler[struct{}, int, struct{}](
			cfg.Throttle.Wait, f, opts...,
		)
		if err != nil {
			return nil, err
		}

		return t, nil
	case config.KindDebounce, "":
		opts := append(cfg.Debounce.Options(),
			debounce.WithClock(c),
			debounce.WithName(cfg.Name),
			debounce.WithObserver(obs),
		)

		d, err := debounce.NewDebouncer[struct{}, int, struct{}](
			cfg.Debounce.Wait, f, opts...,
		)
		if err != nil {
			return nil, err
		}

		return d, nil
	default:
		return nil, fmt.Errorf("%w, got %q", config.ErrUnknownKind, cfg.Kind)
	}
}

// ParseEvents reads call offsets separated by commas or whitespace. Plain
// numbers are milliseconds; anything else must be a Go duration such as
// "1.5s".
func ParseEvents(r io.Reader) ([]time.Duration, error) {
	var events []time.Duration

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.FieldsFunc(scanner.Text(), func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})

		for _, field := range fields {
			d, err := parseOffset(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			events = append(events, d)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func parseOffset(s string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative offset %q", s)
		}

		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative offset %q", s)
	}

	return d, nil
}
