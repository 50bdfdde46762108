package pipeline

import (
	"context"
	"sync"

	"vera/internal/cex"
	"vera/internal/diag"
	"vera/internal/project"
	"vera/internal/source"
)

type fakeTable struct {
	degenerate bool
}

func (t fakeTable) Empty() bool               { return t.degenerate }
func (t fakeTable) Lookup(string) (any, bool) { return nil, false }

type fakeParser struct {
	report func(r diag.Reporter)
}

func (p *fakeParser) Parse(ctx context.Context, files *source.FileSet, roots []source.FileID, r diag.Reporter) (*Program, error) {
	if p.report != nil {
		p.report(r)
	}
	return &Program{Roots: roots}, nil
}

type fakeResolver struct {
	modules []*Module
	report  func(r diag.Reporter)
	err     error
}

func (res *fakeResolver) Resolve(ctx context.Context, prog *Program, r diag.Reporter) (*ResolvedUnit, error) {
	if res.err != nil {
		return nil, res.err
	}
	if res.report != nil {
		res.report(r)
	}
	return &ResolvedUnit{Modules: res.modules}, nil
}

type fakeTables struct{}

func (fakeTables) BuildLegacy(context.Context, *Program) SymbolTable { return fakeTable{degenerate: true} }
func (fakeTables) Build(context.Context, *ResolvedUnit) SymbolTable  { return fakeTable{} }

type fakeGhosts struct {
	diags []diag.Diagnostic
}

func (g *fakeGhosts) Collect(context.Context, SymbolTable) []diag.Diagnostic { return g.diags }

type fakeVerifier struct {
	mu    sync.Mutex
	calls []string
	fn    func(unit VerifiableUnit) (UnitStatus, []*cex.Model, error)
}

func (v *fakeVerifier) Verify(ctx context.Context, unit VerifiableUnit) (UnitStatus, []*cex.Model, error) {
	v.mu.Lock()
	v.calls = append(v.calls, unit.QualifiedName())
	v.mu.Unlock()
	if v.fn == nil {
		return UnitVerified, nil, nil
	}
	return v.fn(unit)
}

func (v *fakeVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.calls)
}

// verifiableDecl returns a declaration that passes every membership check.
func verifiableDecl(name string, span source.Span) *Decl {
	return &Decl{
		Name:              name,
		Span:              span,
		Verify:            true,
		WantsVerification: true,
	}
}

type fixture struct {
	tool     Toolchain
	worker   *LoadWorker
	files    *source.FileSet
	roots    []source.FileID
	manifest *project.Manifest
	parser   *fakeParser
	resolver *fakeResolver
	verifier *fakeVerifier
}

func newFixture(content string) *fixture {
	files := source.NewFileSet()
	id := files.AddVirtual("main.vr", []byte(content))

	parser := &fakeParser{}
	resolver := &fakeResolver{modules: []*Module{{
		Name:          "Main",
		VerifyMembers: true,
		Decls: []*Decl{
			verifiableDecl("sum", source.Span{File: id, Start: 0, End: 10}),
		},
	}}}
	verifier := &fakeVerifier{}

	return &fixture{
		tool: Toolchain{
			Parser:   parser,
			Resolver: resolver,
			Tables:   fakeTables{},
			Ghosts:   &fakeGhosts{},
			Verifier: verifier,
		},
		worker:   NewLoadWorker(8),
		files:    files,
		roots:    []source.FileID{id},
		manifest: project.Default(),
		parser:   parser,
		resolver: resolver,
		verifier: verifier,
	}
}

func (f *fixture) driver() *Driver {
	return NewDriver(f.tool, DriverOptions{Worker: f.worker})
}

func (f *fixture) unloaded(version int64) *Unloaded {
	return NewUnloaded(version, f.manifest, f.files, f.roots)
}

func syntaxError(r diag.Reporter) {
	diag.Error(r, diag.SubParser, diag.SynUnexpectedToken,
		source.At(source.Span{File: 0, Start: 0, End: 1}), "unexpected token")
}

func resolutionError(r diag.Reporter) {
	diag.Error(r, diag.SubResolver, diag.ResUnknownName,
		source.At(source.Span{File: 0, Start: 0, End: 1}), "unknown name")
}
