package diag

import (
	"fmt"
)

// Code is a stable diagnostic identifier. Codes never get renumbered once
// released; retired codes stay reserved.
type Code uint16

const (
	// CodeNone marks a diagnostic without a stable identifier.
	CodeNone Code = 0

	// Parser
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnclosedBrace   Code = 2002
	SynBadDeclaration  Code = 2003

	// Resolver
	ResInfo             Code = 3000
	ResUnknownName      Code = 3001
	ResDuplicateName    Code = 3002
	ResGhostInCompiled  Code = 3003
	ResGhostCall        Code = 3004
	ResDeprecatedMember Code = 3005

	// Verifier
	VerInfo                Code = 4000
	VerAssertionViolation  Code = 4001
	VerPostconditionFailed Code = 4002
	VerTimeout             Code = 4003

	// Project / configuration
	PrjInfo        Code = 5000
	PrjBadManifest Code = 5001
)

// ID renders the stable textual identifier, or "none" for CodeNone.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic == 0:
		return "none"
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("VER%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) String() string {
	return c.ID()
}

// codeExplanations holds the extended help text shown in verbose mode and
// by `vera explain`.
var codeExplanations = map[Code]string{
	SynUnexpectedToken: "The parser met a token that cannot start or continue the current construct. " +
		"Check for a missing delimiter or keyword just before the reported position.",
	SynUnclosedBrace: "A block was opened but never closed before the end of the file.",
	ResUnknownName: "The name does not resolve to any declaration visible in the current scope. " +
		"It may be misspelled, not imported, or declared later in an order-sensitive position.",
	ResGhostInCompiled: "Specification-only (ghost) state may not flow into compiled code. " +
		"Ghost variables and functions exist only for verification and are erased before compilation.",
	ResGhostCall: "A compiled context calls a ghost function. Mark the caller ghost or provide a " +
		"compiled counterpart.",
	VerAssertionViolation: "The verifier found an execution that reaches this assertion with a state " +
		"that falsifies it. Request counterexamples to inspect the offending variable values.",
	VerPostconditionFailed: "Some execution path through the body ends in a state that does not satisfy " +
		"this postcondition. The verifier reports the return path it used as a nested location.",
	VerTimeout:     "The solver exceeded its time budget for this verification condition.",
	PrjBadManifest: "The vera.toml manifest could not be parsed or contains contradictory settings.",
}

// Explain returns the extended help text for a code, if any exists.
func Explain(c Code) (string, bool) {
	text, ok := codeExplanations[c]
	return text, ok
}
