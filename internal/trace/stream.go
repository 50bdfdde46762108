package trace

import (
	"fmt"
	"io"
	"sync"
)

// StreamTracer writes events line-oriented to an output stream as they
// arrive. Suitable for piping operator telemetry to stderr or a file.
type StreamTracer struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// NewStream creates a tracer writing to out at the given level.
func NewStream(out io.Writer, level Level) *StreamTracer {
	return &StreamTracer{out: out, level: level}
}

func (s *StreamTracer) Emit(ev Event) {
	if ev.Level > s.level {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Err != nil {
		fmt.Fprintf(s.out, "%s [%s] %s: %s: %v\n",
			ev.Time.Format("15:04:05.000"), ev.Level, ev.Name, ev.Detail, ev.Err)
		return
	}
	fmt.Fprintf(s.out, "%s [%s] %s: %s\n",
		ev.Time.Format("15:04:05.000"), ev.Level, ev.Name, ev.Detail)
}

func (s *StreamTracer) Level() Level { return s.level }

func (s *StreamTracer) Enabled() bool { return s.level > LevelOff }
