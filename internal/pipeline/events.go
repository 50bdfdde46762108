package pipeline

import "time"

// Stage describes a snapshot stage or an in-flight phase.
type Stage string

const (
	// StageUnloaded is the eagerly-constructed empty snapshot.
	StageUnloaded Stage = "unloaded"
	// StageParse is the parsing stage.
	StageParse Stage = "parse"
	// StageResolve is the resolution stage.
	StageResolve Stage = "resolve"
	// StageVerify is the verification stage.
	StageVerify Stage = "verify"
)

// order ranks stages for monotonic publication per version.
func (s Stage) order() int {
	switch s {
	case StageUnloaded:
		return 0
	case StageParse:
		return 1
	case StageResolve:
		return 2
	case StageVerify:
		return 3
	}
	return -1
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for one verifiable unit (or for the whole
// pipeline when Unit is empty).
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
