package pipeline

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"vera/internal/cex"
	"vera/internal/diag"
	"vera/internal/trace"
)

// DocumentID names one version of one open document.
type DocumentID struct {
	URI     string
	Version int64
}

func (d DocumentID) String() string {
	return fmt.Sprintf("%s@%d", d.URI, d.Version)
}

// snapshotHistory bounds how many published snapshots stay reachable for
// late readers of older versions.
const snapshotHistory = 32

type docState struct {
	version  int64
	stage    int
	latest   Snapshot
	verified *AfterVerification
	// changed closes whenever a snapshot for this document applies, so
	// waiters re-examine the state.
	changed chan struct{}
	// pubQueue holds accepted transitions not yet handed to the publisher,
	// in acceptance order; publishing marks a drainer in flight.
	pubQueue   []publication
	publishing bool
}

type publication struct {
	doc   DocumentID
	stage Stage
	diags []diag.Diagnostic
}

// Manager is the request surface over the snapshot chains of all open
// documents. It owns publication: snapshots apply in strict pipeline order
// per version, and an older in-flight load that completes after a newer
// edit never overwrites the newer snapshot.
type Manager struct {
	mu        sync.Mutex
	docs      map[string]*docState
	history   *lru.Cache[DocumentID, Snapshot]
	publisher Publisher
	tracer    trace.Tracer
}

// NewManager creates a manager publishing transitions to publisher (which
// may be nil) and internal failures to tracer.
func NewManager(publisher Publisher, tracer trace.Tracer) *Manager {
	if tracer == nil {
		tracer = trace.Nop
	}
	history, err := lru.New[DocumentID, Snapshot](snapshotHistory)
	if err != nil {
		panic(err) // only fails for a non-positive size
	}
	return &Manager{
		docs:      make(map[string]*docState),
		history:   history,
		publisher: publisher,
		tracer:    tracer,
	}
}

// Apply publishes a snapshot for a document. It reports false when the
// snapshot is stale: older than the applied version, or not a later stage
// of the same version. An accepted snapshot is published to the
// diagnostics publisher exactly once.
func (m *Manager) Apply(uri string, snapshot Snapshot) bool {
	version := snapshot.SnapshotVersion()
	stage := snapshot.SnapshotStage().order()

	m.mu.Lock()
	st, ok := m.docs[uri]
	if !ok {
		st = &docState{version: -1, stage: -1, changed: make(chan struct{})}
		m.docs[uri] = st
	}
	switch {
	case version < st.version:
		m.mu.Unlock()
		return false
	case version == st.version && stage <= st.stage:
		m.mu.Unlock()
		return false
	case version > st.version:
		st.verified = nil
	}
	st.version = version
	st.stage = stage
	st.latest = snapshot
	if verified, isVerified := snapshot.(*AfterVerification); isVerified {
		st.verified = verified
	}
	close(st.changed)
	st.changed = make(chan struct{})

	doc := DocumentID{URI: uri, Version: version}
	m.history.Add(doc, snapshot)

	// Publication is queued under the lock and drained outside it: the
	// queue fixes the delivery order at acceptance time, so racing Applys
	// cannot publish a stale transition after a newer one, and the
	// publisher callback still runs without holding the manager's mutex.
	drain := false
	if m.publisher != nil {
		st.pubQueue = append(st.pubQueue, publication{
			doc:   doc,
			stage: snapshot.SnapshotStage(),
			diags: snapshot.Diagnostics(),
		})
		if !st.publishing {
			st.publishing = true
			drain = true
		}
	}
	m.mu.Unlock()

	if drain {
		m.drainPublications(st)
	}
	return true
}

// drainPublications delivers queued transitions for one document in
// acceptance order. A single drainer runs per document at a time.
func (m *Manager) drainPublications(st *docState) {
	for {
		m.mu.Lock()
		if len(st.pubQueue) == 0 {
			st.publishing = false
			m.mu.Unlock()
			return
		}
		next := st.pubQueue[0]
		st.pubQueue = st.pubQueue[1:]
		m.mu.Unlock()
		m.publisher.Publish(next.doc, next.stage, next.diags)
	}
}

// Close forgets a document, waking any waiters.
func (m *Manager) Close(uri string) {
	m.mu.Lock()
	if st, ok := m.docs[uri]; ok {
		close(st.changed)
		delete(m.docs, uri)
	}
	m.mu.Unlock()
}

// Latest returns the most recent applied snapshot for a document.
func (m *Manager) Latest(uri string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.docs[uri]
	if !ok || st.latest == nil {
		return nil, false
	}
	return st.latest, true
}

// Recent returns a still-cached snapshot for an exact document version.
func (m *Manager) Recent(doc DocumentID) (Snapshot, bool) {
	return m.history.Get(doc)
}

// GetCounterexamples renders the counterexamples collected for one
// document version, expanding variables to depth. The request awaits
// verification completion for that version first. An unknown or unloaded
// document, a superseded version, and a canceled wait all produce an empty
// result; an unexpected internal failure is recorded for operator
// telemetry and still produces an empty result. The call never fails.
func (m *Manager) GetCounterexamples(ctx context.Context, doc DocumentID, depth int) (items []cex.Item) {
	defer func() {
		if r := recover(); r != nil {
			trace.Errorf(m.tracer, "counterexamples", fmt.Errorf("panic: %v", r), doc.String())
			items = nil
		}
	}()

	verified := m.awaitVerified(ctx, doc)
	if verified == nil {
		return nil
	}
	select {
	case <-verified.Done():
	case <-ctx.Done():
		return nil
	}
	return cex.Extract(verified.Models(), depth)
}

// awaitVerified blocks until a verification snapshot for the requested
// version applies, the version is superseded, or ctx is canceled.
func (m *Manager) awaitVerified(ctx context.Context, doc DocumentID) *AfterVerification {
	for {
		m.mu.Lock()
		st, ok := m.docs[doc.URI]
		if !ok {
			m.mu.Unlock()
			return nil
		}
		if st.version > doc.Version {
			// A newer edit superseded the requested version.
			m.mu.Unlock()
			return nil
		}
		if st.version == doc.Version {
			if st.verified != nil {
				verified := st.verified
				m.mu.Unlock()
				return verified
			}
			// A chain that stopped at parse errors can never reach
			// verification; there is nothing to wait for.
			if parsed, isParsed := st.latest.(*AfterParsing); isParsed && parsed.HasParseErrors() {
				m.mu.Unlock()
				return nil
			}
		}
		changed := st.changed
		m.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return nil
		}
	}
}
