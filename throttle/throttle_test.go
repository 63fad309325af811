package throttle

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/romdo/go-ratefunc/clock"
)

var maxRetries = flag.Int("max-retries", 0, "Maximum number of retries")

// Due to the timing-based nature of the real clock tests and examples, we want
// to support automatically retrying the tests a few times to avoid flakiness.
func TestMain(m *testing.M) {
	flag.Parse()

	code := m.Run()

	for i := 0; code != 0 && i < *maxRetries; i++ {
		fmt.Fprintf(os.Stderr,
			"===\n=== WARN  Tests failed, retrying (%d/%d)...\n===\n",
			i+1, *maxRetries,
		)
		code = m.Run()
	}

	os.Exit(code)
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// invocation records when the throttled function ran, in milliseconds since
// the start of the test, and the index of the call whose arguments it got.
type invocation struct {
	At   int64
	Call int
}

type testCase struct {
	name    string
	wait    time.Duration
	options []Option

	// calls and cancels are offsets in milliseconds. Timers due at an offset
	// fire before a call or cancel at that same offset. The throttler is
	// created at offset 0.
	calls   []int64
	cancels []int64

	wantInvocations []invocation
}

// every returns offsets from 0 up to but excluding until, step apart.
func every(step, until int64) []int64 {
	var offsets []int64
	for at := int64(0); at < until; at += step {
		offsets = append(offsets, at)
	}

	return offsets
}

func runTestCases(t *testing.T, tests []testCase) {
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := clock.NewMock(epoch)
			var mux sync.Mutex
			invocations := []invocation{}

			f := func(_ *testing.T, call int) int {
				mux.Lock()
				defer mux.Unlock()

				at := m.Now().Sub(epoch).Milliseconds()
				invocations = append(invocations, invocation{At: at, Call: call})

				return call
			}

			th, err := NewThrottler[*testing.T, int, int](
				tt.wait, f, append(tt.options, WithClock(m))...,
			)
			if err != nil {
				t.Fatalf("NewThrottler() error = %v", err)
			}

			type step struct {
				at     int64
				call   int
				cancel bool
			}
			steps := make([]step, 0, len(tt.calls)+len(tt.cancels))
			for i, at := range tt.calls {
				steps = append(steps, step{at: at, call: i})
			}
			for _, at := range tt.cancels {
				steps = append(steps, step{at: at, cancel: true})
			}
			sort.SliceStable(steps, func(i, j int) bool {
				return steps[i].at < steps[j].at
			})

			for _, s := range steps {
				m.Set(epoch.Add(time.Duration(s.at) * time.Millisecond))
				if s.cancel {
					th.Cancel()
				} else {
					th.Call(t, s.call)
				}
			}

			// Run out any lingering timer.
			m.Add(tt.wait*2 + time.Second)

			mux.Lock()
			defer mux.Unlock()
			if diff := cmp.Diff(tt.wantInvocations, invocations); diff != "" {
				t.Errorf("invocations mismatch (-want +got):\n%s", diff)
			}
			if th.Pending() {
				t.Error("throttler still pending after running out timers")
			}
		})
	}
}

func TestNewThrottler_leadingAndTrailing(t *testing.T) {
	t.Parallel()

	runTestCases(t, leadingAndTrailingTestCases)
}

func TestNewThrottler_trailingOnly(t *testing.T) {
	t.Parallel()

	runTestCases(t, trailingOnlyTestCases)
}

func TestNewThrottler_leadingOnly(t *testing.T) {
	t.Parallel()

	runTestCases(t, leadingOnlyTestCases)
}

func TestNewThrottler_neitherLeadingNorTrailing(t *testing.T) {
	t.Parallel()

	runTestCases(t, []testCase{
		{
			name: "first interval dropped, then leading only",
			wait: 100 * time.Millisecond,
			options: []Option{
				WithLeading(false), WithTrailing(false),
			},
			calls: []int64{0, 50, 150, 200, 300},
			wantInvocations: []invocation{
				{At: 150, Call: 2},
				{At: 300, Call: 4},
			},
		},
	})
}

// MARK: Leading and trailing

var leadingAndTrailingTestCases = []testCase{
	{
		name:            "no calls, no trigger",
		wait:            100 * time.Millisecond,
		wantInvocations: []invocation{},
	},
	{
		name:  "one call, one leading trigger",
		wait:  100 * time.Millisecond,
		calls: []int64{0},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
		},
	},
	{
		name:  "explicit options same as defaults",
		wait:  100 * time.Millisecond,
		calls: []int64{0, 50},
		options: []Option{
			WithLeading(true), WithTrailing(true),
		},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 100, Call: 1},
		},
	},
	{
		name:  "call within window absorbed by trailing trigger",
		wait:  100 * time.Millisecond,
		calls: []int64{0, 50, 200},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 100, Call: 1},
			{At: 200, Call: 2},
		},
	},
	{
		name:  "trailing trigger uses last arguments",
		wait:  100 * time.Millisecond,
		calls: []int64{0, 20, 40, 60},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 100, Call: 3},
		},
	},
	{
		name:  "isolated calls, leading triggers only",
		wait:  100 * time.Millisecond,
		calls: []int64{0, 500, 1000},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 500, Call: 1},
			{At: 1000, Call: 2},
		},
	},
	{
		name:  "call every 10ms for 500ms, trigger every 100ms",
		wait:  100 * time.Millisecond,
		calls: every(10, 500),
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 100, Call: 9},
			{At: 200, Call: 19},
			{At: 300, Call: 29},
			{At: 400, Call: 39},
			{At: 500, Call: 49},
		},
	},
	{
		name:    "cancel drops trailing trigger and rearms leading",
		wait:    100 * time.Millisecond,
		calls:   []int64{0, 50, 70},
		cancels: []int64{60},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 70, Call: 2},
		},
	},
	{
		name:    "double cancel, same as one cancel",
		wait:    100 * time.Millisecond,
		calls:   []int64{0, 50, 70},
		cancels: []int64{60, 65},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 70, Call: 2},
		},
	},
	{
		name:  "zero wait duration",
		wait:  0,
		calls: []int64{0, 0, 10},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 0, Call: 1},
			{At: 10, Call: 2},
		},
	},
}

// MARK: Trailing only

var trailingOnlyTestCases = []testCase{
	{
		name:    "first call delayed by wait",
		wait:    100 * time.Millisecond,
		options: []Option{WithLeading(false)},
		calls:   []int64{0},
		wantInvocations: []invocation{
			{At: 100, Call: 0},
		},
	},
	{
		name:    "burst in first interval, one trailing trigger",
		wait:    100 * time.Millisecond,
		options: []Option{WithLeading(false)},
		calls:   []int64{0, 50},
		wantInvocations: []invocation{
			{At: 100, Call: 1},
		},
	},
	{
		name:    "first call after first interval fires right away",
		wait:    100 * time.Millisecond,
		options: []Option{WithLeading(false)},
		calls:   []int64{150},
		wantInvocations: []invocation{
			{At: 150, Call: 0},
		},
	},
	{
		name:    "call every 10ms for 300ms, trigger every 100ms",
		wait:    100 * time.Millisecond,
		options: []Option{WithLeading(false)},
		calls:   every(10, 300),
		wantInvocations: []invocation{
			{At: 100, Call: 9},
			{At: 200, Call: 19},
			{At: 300, Call: 29},
		},
	},
	{
		name:    "cancel forgets creation time",
		wait:    100 * time.Millisecond,
		options: []Option{WithLeading(false)},
		calls:   []int64{0, 60},
		cancels: []int64{50},
		wantInvocations: []invocation{
			{At: 60, Call: 1},
		},
	},
}

// MARK: Leading only

var leadingOnlyTestCases = []testCase{
	{
		name:    "calls within window dropped",
		wait:    100 * time.Millisecond,
		options: []Option{WithTrailing(false)},
		calls:   []int64{0, 50, 100, 150, 250},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 150, Call: 3},
		},
	},
	{
		name:    "call every 10ms for 500ms, first call past each window fires",
		wait:    100 * time.Millisecond,
		options: []Option{WithTrailing(false)},
		calls:   every(10, 500),
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 110, Call: 11},
			{At: 220, Call: 22},
			{At: 330, Call: 33},
			{At: 440, Call: 44},
		},
	},
	{
		name:    "cancel rearms leading",
		wait:    100 * time.Millisecond,
		options: []Option{WithTrailing(false)},
		calls:   []int64{0, 50, 70},
		cancels: []int64{60},
		wantInvocations: []invocation{
			{At: 0, Call: 0},
			{At: 70, Call: 2},
		},
	},
}
