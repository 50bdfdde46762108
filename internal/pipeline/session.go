package pipeline

import (
	"context"
	"errors"

	"vera/internal/project"
	"vera/internal/source"
	"vera/internal/trace"
)

// Session glues a driver and a manager into the edit-to-snapshot loop: one
// Update call runs parse, resolve and verification for one new version of
// a document, applying every snapshot as it lands. Stale updates lose the
// publication race by version and leave the newer chain untouched.
type Session struct {
	driver  *Driver
	manager *Manager
	tracer  trace.Tracer
}

// SessionOptions configures a session.
type SessionOptions struct {
	DriverOptions
	// Publisher receives the per-transition diagnostic lists.
	Publisher Publisher
}

// NewSession creates a session over the given collaborators. The caller
// keeps ownership of the load worker in opts; one worker is typically
// shared by every session of a process.
func NewSession(tool Toolchain, opts SessionOptions) *Session {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Session{
		driver:  NewDriver(tool, opts.DriverOptions),
		manager: NewManager(opts.Publisher, tracer),
		tracer:  tracer,
	}
}

// Manager exposes the request surface of the session.
func (s *Session) Manager() *Manager { return s.manager }

// Driver exposes the stage driver, mainly for phase timings.
func (s *Session) Driver() *Driver { return s.driver }

// parsedOf unwraps whichever stage a snapshot reached down to its parse
// data, for progress-tree migration.
func parsedOf(s Snapshot) *AfterParsing {
	switch v := s.(type) {
	case *AfterParsing:
		return v
	case *AfterResolution:
		return &v.AfterParsing
	case *AfterVerification:
		return &v.AfterParsing
	}
	return nil
}

// Update runs the full chain for one new version of a document and returns
// the last snapshot that applied. A canceled stage is not an error: the
// chain simply stops at the snapshot it reached (parse errors stop before
// resolution by design). Update never publishes a partial stage.
func (s *Session) Update(ctx context.Context, uri string, version int64, manifest *project.Manifest, files *source.FileSet, roots []source.FileID) (Snapshot, error) {
	var prevParsed *AfterParsing
	if prev, ok := s.manager.Latest(uri); ok {
		prevParsed = parsedOf(prev)
	}

	unloaded := NewUnloaded(version, manifest, files, roots)
	if !s.manager.Apply(uri, unloaded) {
		// Already superseded; don't spend load-worker time on a chain
		// guaranteed to lose the publication race.
		return nil, ErrCanceled
	}

	parsed, err := s.driver.Parse(ctx, unloaded, prevParsed)
	if err != nil {
		return nil, err
	}
	if !s.manager.Apply(uri, parsed) {
		return nil, ErrCanceled
	}

	resolved, err := s.driver.Resolve(ctx, parsed)
	if errors.Is(err, ErrCanceled) && parsed.HasParseErrors() {
		// The chain legitimately ends at AfterParsing.
		return parsed, nil
	}
	if err != nil {
		return nil, err
	}
	if !s.manager.Apply(uri, resolved) {
		return nil, ErrCanceled
	}

	verified := s.driver.Verify(ctx, resolved)
	if !s.manager.Apply(uri, verified) {
		return nil, ErrCanceled
	}
	return verified, nil
}
