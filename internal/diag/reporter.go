package diag

import (
	"fmt"

	"vera/internal/source"
)

// Options configures reporting behavior shared by every reporter attached
// to one compilation.
type Options struct {
	// WarningsAsErrors reclassifies every warning to an error before it is
	// counted or rendered.
	WarningsAsErrors bool
	// DeprecationLevel controls deprecation notices: 0 silences them
	// entirely, anything higher reports them as warnings.
	DeprecationLevel int
	// MaxDiagnostics caps how many diagnostics a counting reporter
	// records; zero means unlimited. Reports past the cap are dropped and
	// answer false.
	MaxDiagnostics int
	// Verbose appends the extended explanation for diagnostics that carry
	// a stable code.
	Verbose bool
}

// Reporter is the capability every pipeline stage reports through.
//
// Report returns whether the diagnostic was actually recorded; a reporter
// that discards its input (Silent) returns false. Reporting never fails.
type Reporter interface {
	Report(d Diagnostic) bool
	Count(sev Severity) int
	// CountExcludingLateStages counts only diagnostics whose subsystem is
	// strictly earlier than verification. This is the value consulted to
	// decide whether verifiable-unit extraction is worth attempting.
	CountExcludingLateStages(sev Severity) int
	Options() *Options
}

// HasErrors reports whether r recorded at least one error.
func HasErrors(r Reporter) bool {
	return r.Count(SevError) > 0
}

// escalate applies the warnings-as-errors policy. It is idempotent:
// escalating an error is a no-op, so a diagnostic forwarded through
// wrapped reporters is never re-escalated.
func escalate(opts *Options, d Diagnostic) Diagnostic {
	if opts != nil && opts.WarningsAsErrors && d.Severity == SevWarning {
		d.Severity = SevError
	}
	return d
}

// Error reports a formatted error diagnostic.
func Error(r Reporter, sub Subsystem, code Code, loc source.Loc, format string, args ...any) bool {
	return r.Report(Diagnostic{
		Subsystem: sub,
		Severity:  SevError,
		Code:      code,
		Loc:       loc,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Warning reports a formatted warning diagnostic.
func Warning(r Reporter, sub Subsystem, code Code, loc source.Loc, format string, args ...any) bool {
	return r.Report(Diagnostic{
		Subsystem: sub,
		Severity:  SevWarning,
		Code:      code,
		Loc:       loc,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Info reports a formatted informational diagnostic.
func Info(r Reporter, sub Subsystem, code Code, loc source.Loc, format string, args ...any) bool {
	return r.Report(Diagnostic{
		Subsystem: sub,
		Severity:  SevInfo,
		Code:      code,
		Loc:       loc,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Deprecated reports a deprecation notice. At deprecation level zero the
// notice is dropped without touching any counter.
func Deprecated(r Reporter, sub Subsystem, code Code, loc source.Loc, format string, args ...any) bool {
	opts := r.Options()
	if opts == nil || opts.DeprecationLevel == 0 {
		return false
	}
	return Warning(r, sub, code, loc, format, args...)
}
