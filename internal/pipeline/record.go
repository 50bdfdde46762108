package pipeline

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// EventRecord is the wire form of an Event for recorded sessions.
type EventRecord struct {
	Unit      string
	Stage     string
	Status    string
	Error     string
	ElapsedUS int64
}

func (r EventRecord) event() Event {
	evt := Event{
		Unit:    r.Unit,
		Stage:   Stage(r.Stage),
		Status:  Status(r.Status),
		Elapsed: time.Duration(r.ElapsedUS) * time.Microsecond,
	}
	if r.Error != "" {
		evt.Err = errors.New(r.Error)
	}
	return evt
}

// RecordSink persists every event as a msgpack stream, so a verification
// session can be replayed later (vera monitor). Thread-safe.
type RecordSink struct {
	mu  sync.Mutex
	enc *msgpack.Encoder
}

// NewRecordSink creates a sink encoding onto w.
func NewRecordSink(w io.Writer) *RecordSink {
	return &RecordSink{enc: msgpack.NewEncoder(w)}
}

func (s *RecordSink) OnEvent(evt Event) {
	rec := EventRecord{
		Unit:      evt.Unit,
		Stage:     string(evt.Stage),
		Status:    string(evt.Status),
		ElapsedUS: evt.Elapsed.Microseconds(),
	}
	if evt.Err != nil {
		rec.Error = evt.Err.Error()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(&rec) //nolint:errcheck // recording is best-effort
}

// ReplayEvents decodes a recorded stream into ch until EOF, then closes
// ch. A decode error after a partial record also ends the replay.
func ReplayEvents(r io.Reader, ch chan<- Event) error {
	defer close(ch)
	dec := msgpack.NewDecoder(r)
	for {
		var rec EventRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		ch <- rec.event()
	}
}
