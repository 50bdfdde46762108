package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"vera/internal/diag"
	"vera/internal/observ"
	"vera/internal/project"
	"vera/internal/trace"
	"vera/internal/vtree"
)

// ErrCanceled marks a stage transition that did not happen: either the
// caller's context was canceled or a precondition (a syntactically broken
// program) made the stage meaningless. Distinct everywhere from
// "transitioned with errors", which is a successful transition.
var ErrCanceled = errors.New("pipeline: canceled")

// DriverOptions configures one driver.
type DriverOptions struct {
	// Worker is the shared load worker. Required.
	Worker *LoadWorker
	// Progress receives per-unit verification events. Optional.
	Progress ProgressSink
	// VerifyConcurrency bounds parallel unit verification. Zero means
	// one verification at a time.
	VerifyConcurrency int
	// Tracer receives phase telemetry. Nil means none.
	Tracer trace.Tracer
}

// Driver orchestrates snapshot transitions for one compilation identity.
// Parse and resolve run on the shared load worker; verification fans out
// on the caller's side.
type Driver struct {
	tool     Toolchain
	worker   *LoadWorker
	progress ProgressSink
	tracer   trace.Tracer
	verifyN  int
	timer    *observ.Timer

	cacheMu   sync.Mutex
	cacheDir  string
	cacheOpen bool
	cache     *vtree.DiskCache
}

// NewDriver creates a driver over the given collaborators.
func NewDriver(tool Toolchain, opts DriverOptions) *Driver {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	verifyN := opts.VerifyConcurrency
	if verifyN <= 0 {
		verifyN = 1
	}
	return &Driver{
		tool:     tool,
		worker:   opts.Worker,
		progress: opts.Progress,
		tracer:   tracer,
		verifyN:  verifyN,
		timer:    observ.NewTimer(),
	}
}

// Timer exposes the phase timings recorded so far.
func (d *Driver) Timer() *observ.Timer { return d.timer }

// diskCache returns the progress cache for the manifest's configured
// cache directory, opening it on first use. Projects without a cache_dir
// get no disk cache; a directory that cannot be opened degrades to none.
func (d *Driver) diskCache(m *project.Manifest) *vtree.DiskCache {
	dir := m.Verify.CacheDir
	if dir == "" {
		return nil
	}
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	if d.cacheOpen && d.cacheDir == dir {
		return d.cache
	}
	cache, err := vtree.OpenDiskCache(dir)
	if err != nil {
		trace.Errorf(d.tracer, "vtree-cache", err, dir)
		cache = nil
	}
	d.cacheDir = dir
	d.cacheOpen = true
	d.cache = cache
	return cache
}

// reporterOptions derives the reporting policy from the project manifest.
func reporterOptions(u *Unloaded) *diag.Options {
	return &diag.Options{
		WarningsAsErrors: u.Manifest.Diagnostics.WarningsAsErrors,
		DeprecationLevel: u.Manifest.Diagnostics.DeprecationLevel,
		MaxDiagnostics:   u.Manifest.Diagnostics.MaxDiagnostics,
	}
}

// Parse builds the AfterParsing snapshot on the load worker. Syntax errors
// become diagnostics, never a returned error; prev (which may be nil)
// donates compatible verification progress trees.
func (d *Driver) Parse(ctx context.Context, u *Unloaded, prev *AfterParsing) (*AfterParsing, error) {
	reporter := diag.NewCounting(reporterOptions(u))
	snapshot := &AfterParsing{
		Unloaded: *u,
		Reporter: reporter,
	}

	begin := d.timer.Begin("parse")
	err := d.worker.Do(ctx, func(ctx context.Context) error {
		prog, parseErr := d.tool.Parser.Parse(ctx, u.Files, u.Roots, reporter)
		if parseErr != nil {
			return parseErr
		}
		snapshot.Program = prog
		return nil
	})
	d.timer.End(begin, fmt.Sprintf("%d diagnostics", reporter.Len()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	var prevTrees map[string]*vtree.Tree
	if prev != nil {
		prevTrees = prev.Trees
	}
	snapshot.Trees = vtree.Migrate(prevTrees, u.RootHashes())

	// Cold start: a file the previous chain donated nothing for may still
	// have persisted progress from an earlier session under the same
	// content hash. Best-effort; a cache miss or read error keeps the
	// fresh empty tree.
	if cache := d.diskCache(u.Manifest); cache != nil {
		for path, tree := range snapshot.Trees {
			if tree.Len() != 0 {
				continue
			}
			if cached, cacheErr := cache.Get(tree.Hash); cacheErr == nil && cached != nil {
				snapshot.Trees[path] = cached
			}
		}
	}

	trace.Phasef(d.tracer, "parse", fmt.Sprintf("version=%d files=%d", u.Version, len(u.Roots)))
	return snapshot, nil
}

// Resolve builds the AfterResolution snapshot on the load worker.
//
// Resolution over a syntactically broken program is not meaningful: when
// the parse stage already recorded errors the operation completes as
// canceled, which is not the same outcome as resolving with errors. When
// resolver-stage errors exist the unit list stays empty rather than
// partially populated.
func (d *Driver) Resolve(ctx context.Context, parsed *AfterParsing) (*AfterResolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if parsed.HasParseErrors() {
		return nil, fmt.Errorf("%w: parse stage has errors", ErrCanceled)
	}

	reporter := parsed.Reporter
	snapshot := &AfterResolution{AfterParsing: *parsed}

	begin := d.timer.Begin("resolve")
	err := d.worker.Do(ctx, func(ctx context.Context) error {
		resolved, resolveErr := d.tool.Resolver.Resolve(ctx, parsed.Program, reporter)
		if resolveErr != nil {
			return resolveErr
		}
		snapshot.Resolved = resolved

		if diag.HasErrors(reporter) || resolved == nil {
			snapshot.Symbols = d.tool.Tables.BuildLegacy(ctx, parsed.Program)
		} else {
			snapshot.Symbols = d.tool.Tables.Build(ctx, resolved)
		}

		snapshot.GhostDiags = d.tool.Ghosts.Collect(ctx, snapshot.Symbols)
		for _, g := range snapshot.GhostDiags {
			reporter.Report(g)
		}
		return nil
	})
	if err != nil {
		d.timer.End(begin, "canceled")
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	if reporter.CountExcludingLateStages(diag.SevError) == 0 {
		snapshot.Units = ExtractUnits(snapshot.Resolved, parsed.Manifest.Verify.Enabled)
	}
	d.timer.End(begin, fmt.Sprintf("%d units", len(snapshot.Units)))
	trace.Phasef(d.tracer, "resolve", fmt.Sprintf("version=%d units=%d", parsed.Version, len(snapshot.Units)))
	return snapshot, nil
}

// Verify discharges every extracted unit, fanning out on the caller's
// side, and returns the accumulating AfterVerification snapshot
// immediately. Results arrive incrementally; any subset of units may fail
// independently without voiding the rest. The snapshot's Done channel
// closes once every unit has an outcome.
func (d *Driver) Verify(ctx context.Context, res *AfterResolution) *AfterVerification {
	snapshot := newAfterVerification(res)
	if len(res.Units) == 0 {
		return snapshot
	}

	for _, unit := range res.Units {
		emit(d.progress, Event{Unit: unit.QualifiedName(), Stage: StageVerify, Status: StatusQueued})
	}

	go func() {
		begin := d.timer.Begin("verify")
		grp, grpCtx := errgroup.WithContext(ctx)
		grp.SetLimit(d.verifyN)
		for _, unit := range res.Units {
			unit := unit
			grp.Go(func() error {
				d.verifyUnit(grpCtx, snapshot, unit)
				return nil
			})
		}
		_ = grp.Wait() //nolint:errcheck // unit failures land in results, not errors
		snapshot.abandon()
		if cache := d.diskCache(snapshot.Manifest); cache != nil {
			for _, tree := range snapshot.Trees {
				if tree.Len() == 0 {
					continue
				}
				if putErr := cache.Put(tree); putErr != nil {
					trace.Errorf(d.tracer, "vtree-cache", putErr, "persist failed")
				}
			}
		}
		d.timer.End(begin, fmt.Sprintf("%d units", len(res.Units)))
		trace.Phasef(d.tracer, "verify", fmt.Sprintf("version=%d units=%d", res.Version, len(res.Units)))
	}()
	return snapshot
}

func (d *Driver) verifyUnit(ctx context.Context, snapshot *AfterVerification, unit VerifiableUnit) {
	name := unit.QualifiedName()
	tree := snapshot.Trees[snapshot.Files.Get(unit.Span.File).Path]

	if tree != nil {
		if status, ok := tree.Get(unit.Span); ok && status == vtree.StatusVerified {
			// Migrated progress: the range verified in a compatible
			// previous chain, no solver work needed.
			snapshot.addResult(&UnitResult{Unit: unit, Status: UnitVerified})
			emit(d.progress, Event{Unit: name, Stage: StageVerify, Status: StatusDone})
			return
		}
		tree.Set(unit.Span, vtree.StatusRunning)
	}

	emit(d.progress, Event{Unit: name, Stage: StageVerify, Status: StatusWorking})
	started := time.Now()
	status, models, err := d.tool.Verifier.Verify(ctx, unit)
	elapsed := time.Since(started)

	if err != nil {
		status = UnitErrored
		trace.Errorf(d.tracer, "verify:"+name, err, "unit verification failed")
	}

	// Tree first, result second: the snapshot's done channel closes on the
	// last result, and by then every tree range must be settled.
	if tree != nil {
		switch status {
		case UnitVerified:
			tree.Set(unit.Span, vtree.StatusVerified)
		case UnitErrored:
			tree.Set(unit.Span, vtree.StatusPending)
		default:
			tree.Set(unit.Span, vtree.StatusFailed)
		}
	}
	snapshot.addResult(&UnitResult{Unit: unit, Status: status, Models: models, Err: err})

	evtStatus := StatusDone
	if err != nil {
		evtStatus = StatusError
	}
	emit(d.progress, Event{Unit: name, Stage: StageVerify, Status: evtStatus, Err: err, Elapsed: elapsed})
}
