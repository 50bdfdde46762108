package pipeline

import (
	"sync"

	"vera/internal/cex"
	"vera/internal/diag"
	"vera/internal/project"
	"vera/internal/source"
	"vera/internal/vtree"
)

// Snapshot is the read-only view shared by every stage of the chain. Once
// a snapshot is published it is never mutated; readers share it freely.
type Snapshot interface {
	SnapshotVersion() int64
	SnapshotStage() Stage
	Diagnostics() []diag.Diagnostic
}

// Unloaded is the eagerly-constructed snapshot for a just-opened document:
// cheap to build, immediately queryable, empty symbol table and empty
// progress-tree map.
type Unloaded struct {
	Version  int64
	Manifest *project.Manifest
	Files    *source.FileSet
	Roots    []source.FileID
}

// NewUnloaded builds the initial snapshot without touching the parser.
func NewUnloaded(version int64, manifest *project.Manifest, files *source.FileSet, roots []source.FileID) *Unloaded {
	if manifest == nil {
		manifest = project.Default()
	}
	return &Unloaded{
		Version:  version,
		Manifest: manifest,
		Files:    files,
		Roots:    roots,
	}
}

func (u *Unloaded) SnapshotVersion() int64        { return u.Version }
func (u *Unloaded) SnapshotStage() Stage          { return StageUnloaded }
func (u *Unloaded) Diagnostics() []diag.Diagnostic { return nil }

// RootHashes maps root file paths to their content hashes, the
// compatibility key for progress-tree migration.
func (u *Unloaded) RootHashes() map[string][32]byte {
	out := make(map[string][32]byte, len(u.Roots))
	for _, id := range u.Roots {
		f := u.Files.Get(id)
		out[f.Path] = f.Hash
	}
	return out
}

// AfterParsing carries everything Unloaded does plus the parsed program,
// its diagnostics, and the per-file verification progress trees (migrated
// from the previous chain where compatible).
type AfterParsing struct {
	Unloaded
	Program  *Program
	Reporter *diag.Counting
	Trees    map[string]*vtree.Tree
}

func (p *AfterParsing) SnapshotStage() Stage { return StageParse }

func (p *AfterParsing) Diagnostics() []diag.Diagnostic { return p.Reporter.Items() }

// HasParseErrors reports whether parsing recorded at least one error.
func (p *AfterParsing) HasParseErrors() bool { return diag.HasErrors(p.Reporter) }

// AfterResolution additionally carries the symbol table, the ghost-state
// diagnostics and the verifiable units extracted from the resolved tree.
// Its results map starts empty; verification fills a separate snapshot.
type AfterResolution struct {
	AfterParsing
	Resolved   *ResolvedUnit
	Symbols    SymbolTable
	GhostDiags []diag.Diagnostic
	Units      []VerifiableUnit
}

func (r *AfterResolution) SnapshotStage() Stage { return StageResolve }

// AfterVerification accumulates per-unit results keyed by source range.
// It is the one stage that fills in after publication: results arrive
// incrementally and any subset of units may fail independently, so access
// goes through the mutex-guarded copying accessors. The done channel
// closes when every unit has a result.
type AfterVerification struct {
	AfterResolution

	mu      sync.Mutex
	results map[source.Span]*UnitResult
	pending int
	done    chan struct{}
}

// newAfterVerification prepares the accumulating snapshot for the given
// resolution snapshot.
func newAfterVerification(res *AfterResolution) *AfterVerification {
	v := &AfterVerification{
		AfterResolution: *res,
		results:         make(map[source.Span]*UnitResult, len(res.Units)),
		pending:         len(res.Units),
		done:            make(chan struct{}),
	}
	if v.pending == 0 {
		close(v.done)
	}
	return v
}

func (v *AfterVerification) SnapshotStage() Stage { return StageVerify }

// Done closes once every unit has a result.
func (v *AfterVerification) Done() <-chan struct{} { return v.done }

// addResult records one unit's outcome. The last result closes done.
func (v *AfterVerification) addResult(res *UnitResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, dup := v.results[res.Unit.Span]; dup {
		return
	}
	v.results[res.Unit.Span] = res
	v.pending--
	if v.pending == 0 {
		close(v.done)
	}
}

// abandon resolves the done channel when verification stops early, so
// waiters holding the snapshot do not block forever.
func (v *AfterVerification) abandon() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending > 0 {
		v.pending = 0
		close(v.done)
	}
}

// Result returns the outcome for the unit covering the given range.
func (v *AfterVerification) Result(span source.Span) (UnitResult, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	res, ok := v.results[span]
	if !ok {
		return UnitResult{}, false
	}
	return *res, true
}

// Results returns a copy of the accumulated outcomes keyed by range.
func (v *AfterVerification) Results() map[source.Span]UnitResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[source.Span]UnitResult, len(v.results))
	for span, res := range v.results {
		out[span] = *res
	}
	return out
}

// Models returns every collected solver model grouped by unit, in the
// order the units were extracted. Models of different units never
// interleave.
func (v *AfterVerification) Models() []*cex.Model {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []*cex.Model
	for _, unit := range v.Units {
		if res, ok := v.results[unit.Span]; ok {
			out = append(out, res.Models...)
		}
	}
	return out
}
