package pipeline

import (
	"context"

	"vera/internal/cex"
	"vera/internal/diag"
	"vera/internal/source"
)

// Program is the parsed form of one compilation. The AST payload belongs
// to the parser collaborator and stays opaque to the pipeline; the core
// only needs the root files.
type Program struct {
	Roots []source.FileID
	AST   any
}

// Module is one module of the resolved declaration tree.
type Module struct {
	Name string
	// VerifyMembers is whether the module requests verification of its
	// members at all.
	VerifyMembers bool
	Decls         []*Decl
}

// Decl is one declaration of the resolved tree. Declarations nest; the
// unit extraction walk visits children recursively.
type Decl struct {
	Name        string
	Span        source.Span
	Ghost       bool
	Synthesized bool
	// Verify is the declaration's own verify-flag (attribute).
	Verify bool
	// WantsVerification is whether the declaration requests an obligation
	// for itself (as opposed to merely permitting one).
	WantsVerification bool
	Children          []*Decl
}

// ResolvedUnit is the resolver collaborator's output: the resolved
// declaration tree plus an opaque payload of its own.
type ResolvedUnit struct {
	Modules []*Module
	Payload any
}

// VerifiableUnit is one declaration selected for a verification obligation.
type VerifiableUnit struct {
	Module string
	Name   string
	Span   source.Span
}

// QualifiedName renders "module.name" for display and event routing.
func (u VerifiableUnit) QualifiedName() string {
	if u.Module == "" {
		return u.Name
	}
	return u.Module + "." + u.Name
}

// SymbolTable is a queryable view over resolved symbols. The pipeline
// treats it as opaque apart from knowing whether it is the degenerate
// table produced when resolution already failed.
type SymbolTable interface {
	Empty() bool
	Lookup(name string) (any, bool)
}

// Parser turns loaded sources into a Program. Syntax errors are reported
// through the reporter, never returned; the only error a parser may
// surface is the context's cancellation.
type Parser interface {
	Parse(ctx context.Context, files *source.FileSet, roots []source.FileID, r diag.Reporter) (*Program, error)
}

// Resolver performs name binding and type resolution over a parsed
// program, reporting additional diagnostics through the same reporter the
// program was parsed with.
type Resolver interface {
	Resolve(ctx context.Context, prog *Program, r diag.Reporter) (*ResolvedUnit, error)
}

// SymbolTableFactory builds queryable symbol tables. BuildLegacy produces
// the completion-oriented table that stays usable over a program whose
// resolution failed; Build produces the richer table over a fully
// resolved unit. Both return a degenerate empty table rather than failing.
type SymbolTableFactory interface {
	BuildLegacy(ctx context.Context, prog *Program) SymbolTable
	Build(ctx context.Context, resolved *ResolvedUnit) SymbolTable
}

// GhostCollector computes diagnostics about misused specification-only
// constructs from a symbol table.
type GhostCollector interface {
	Collect(ctx context.Context, table SymbolTable) []diag.Diagnostic
}

// UnitStatus is the outcome of verifying one unit.
type UnitStatus uint8

const (
	// UnitVerified means every obligation of the unit holds.
	UnitVerified UnitStatus = iota
	// UnitRefuted means the solver produced at least one counterexample.
	UnitRefuted
	// UnitTimedOut means the solver gave up within its budget.
	UnitTimedOut
	// UnitErrored means verification itself failed.
	UnitErrored
)

func (s UnitStatus) String() string {
	switch s {
	case UnitVerified:
		return "verified"
	case UnitRefuted:
		return "refuted"
	case UnitTimedOut:
		return "timed out"
	case UnitErrored:
		return "errored"
	}
	return "unknown"
}

// Verifier discharges the obligations of one unit, producing a status and
// zero or more raw solver models, one per found counterexample.
type Verifier interface {
	Verify(ctx context.Context, unit VerifiableUnit) (UnitStatus, []*cex.Model, error)
}

// UnitResult pairs a verified unit with its outcome.
type UnitResult struct {
	Unit   VerifiableUnit
	Status UnitStatus
	Models []*cex.Model
	Err    error
}

// Toolchain bundles the external collaborators one driver runs against.
type Toolchain struct {
	Parser   Parser
	Resolver Resolver
	Tables   SymbolTableFactory
	Ghosts   GhostCollector
	Verifier Verifier
}

// Publisher receives the diagnostic list per document per snapshot
// transition for external display. The manager calls it exactly once per
// applied transition, monotonically per version.
type Publisher interface {
	Publish(doc DocumentID, stage Stage, diags []diag.Diagnostic)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(doc DocumentID, stage Stage, diags []diag.Diagnostic)

func (f PublisherFunc) Publish(doc DocumentID, stage Stage, diags []diag.Diagnostic) {
	f(doc, stage, diags)
}
