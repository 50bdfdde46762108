package diag

// Subsystem identifies the pipeline stage that produced a diagnostic.
// The order matters: everything before SubVerifier counts as an "early"
// stage when deciding whether resolution succeeded well enough to extract
// verifiable units.
type Subsystem uint8

const (
	SubProject Subsystem = iota
	SubParser
	SubRewriter
	SubResolver
	SubTranslator
	SubVerifier
	SubCompiler
)

// Late reports whether the subsystem belongs to the verification or
// compilation stages.
func (s Subsystem) Late() bool {
	return s >= SubVerifier
}

func (s Subsystem) String() string {
	switch s {
	case SubProject:
		return "project"
	case SubParser:
		return "parser"
	case SubRewriter:
		return "rewriter"
	case SubResolver:
		return "resolver"
	case SubTranslator:
		return "translator"
	case SubVerifier:
		return "verifier"
	case SubCompiler:
		return "compiler"
	}
	return "unknown"
}
