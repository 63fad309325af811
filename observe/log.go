package observe

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger returns a zerolog.Logger writing to w at the given level.
// Unknown levels fall back to info. When console is true, output is human
// readable instead of JSON.
func SetupLogger(w io.Writer, level string, console bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

type logObserver struct {
	logger zerolog.Logger
}

// Log returns an Observer writing each event to logger. Panicked events are
// logged at error level, everything else at debug level.
func Log(logger zerolog.Logger) Observer {
	return &logObserver{logger: logger}
}

func (l *logObserver) Observe(e Event) {
	ev := l.logger.Debug()
	if e.Kind == Panicked {
		ev = l.logger.Error().Interface("panic", e.Value)
	}

	ev.Str("name", e.Name).
		Stringer("kind", e.Kind).
		Time("at", e.Time).
		Msg("ratefunc")
}

// LogPanics returns a panic handler which logs the recovered value at error
// level, for use with the WithPanicHandler options of the debounce and
// throttle packages.
func LogPanics(logger zerolog.Logger) func(v any) {
	return func(v any) {
		logger.Error().
			Interface("panic", v).
			Msg("recovered panic in deferred call")
	}
}
