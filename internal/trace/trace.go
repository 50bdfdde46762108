package trace

import (
	"time"
)

// Level controls telemetry verbosity.
type Level uint8

const (
	// LevelOff disables telemetry.
	LevelOff Level = iota
	// LevelError emits only internal failures.
	LevelError
	// LevelPhase adds pipeline stage boundaries.
	LevelPhase
	// LevelDetail adds per-unit events.
	LevelDetail
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Event is a single telemetry record.
type Event struct {
	Time   time.Time
	Level  Level
	Name   string // e.g. "parse", "counterexamples", "verify:Main.sum"
	Detail string
	Err    error
}

// Tracer receives operator-facing telemetry. Implementations must be
// goroutine-safe; emitting never fails.
type Tracer interface {
	Emit(ev Event)
	Level() Level
	Enabled() bool
}

// Errorf emits an internal-failure event.
func Errorf(t Tracer, name string, err error, detail string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(Event{Time: time.Now(), Level: LevelError, Name: name, Detail: detail, Err: err})
}

// Phasef emits a stage-boundary event.
func Phasef(t Tracer, name, detail string) {
	if t == nil || t.Level() < LevelPhase {
		return
	}
	t.Emit(Event{Time: time.Now(), Level: LevelPhase, Name: name, Detail: detail})
}
