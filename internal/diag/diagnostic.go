package diag

import (
	"vera/internal/source"
)

// Note attaches a secondary position with an explanatory message.
type Note struct {
	Loc source.Loc
	Msg string
}

// Diagnostic is an immutable report about one program position. Diagnostics
// are produced only through a Reporter, never constructed ad hoc by
// pipeline consumers.
type Diagnostic struct {
	Subsystem Subsystem
	Severity  Severity
	Code      Code
	Loc       source.Loc
	Message   string
	Related   []Note
}

// WithNote returns a copy of d with an extra related note appended.
func (d Diagnostic) WithNote(loc source.Loc, msg string) Diagnostic {
	notes := make([]Note, 0, len(d.Related)+1)
	notes = append(notes, d.Related...)
	notes = append(notes, Note{Loc: loc, Msg: msg})
	d.Related = notes
	return d
}
