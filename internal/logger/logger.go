package logger

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TimestampField is the key of the event time in every log line.
const TimestampField = "ts"

var setGlobals sync.Once

// tsHook stamps each event with the current time in loc.
type tsHook struct {
	loc *time.Location
}

func (h tsHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Time(TimestampField, time.Now().In(h.loc))
}

// New builds a JSON logger writing one object per line to w.
// Timestamps are written under "ts" in the given location.
func New(w io.Writer, loc *time.Location, level string) zerolog.Logger {
	setGlobals.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	})
	if loc == nil {
		loc = time.UTC
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).Hook(tsHook{loc: loc})
}
