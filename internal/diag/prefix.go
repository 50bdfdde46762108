package diag

// Prefixing counts locally while replaying every diagnostic, with a
// literal prefix prepended to its message, into a wrapped reporter. The
// wrapper attaches provenance ("(included from X) ") to everything
// produced while processing a nested unit without changing the nested
// unit's own reporter identity; its own counters reflect exactly the calls
// routed through it.
type Prefixing struct {
	*Counting
	prefix  string
	wrapped Reporter
}

// NewPrefixing wraps another reporter. Options are shared with the wrapped
// reporter so escalation stays consistent across the pair.
func NewPrefixing(wrapped Reporter, prefix string) *Prefixing {
	return &Prefixing{
		Counting: NewCounting(wrapped.Options()),
		prefix:   prefix,
		wrapped:  wrapped,
	}
}

// Report escalates once, records locally, then forwards the prefixed
// diagnostic. Forwarding an already-escalated diagnostic is safe because
// escalation is idempotent. The return value reflects the local record
// only: a locally-counted diagnostic is recorded even when the wrapped
// reporter discards its copy.
func (p *Prefixing) Report(d Diagnostic) bool {
	d = escalate(p.Counting.opts, d)
	if !p.Counting.record(d) {
		return false
	}
	d.Message = p.prefix + d.Message
	p.wrapped.Report(d)
	return true
}
