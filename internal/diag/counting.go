package diag

import (
	"sync"
)

// Counting records every diagnostic it is given and keeps per-severity
// counters, split by early/late subsystem. It never prints. All the other
// reporters are built on top of it.
type Counting struct {
	mu    sync.Mutex
	opts  *Options
	items []Diagnostic

	counts      [3]int
	countsEarly [3]int
}

// NewCounting creates a counting sink with the given options. A nil opts
// means defaults.
func NewCounting(opts *Options) *Counting {
	if opts == nil {
		opts = &Options{}
	}
	return &Counting{opts: opts}
}

// Report records the diagnostic after applying the escalation policy.
func (c *Counting) Report(d Diagnostic) bool {
	d = escalate(c.opts, d)
	return c.record(d)
}

// record counts an already-escalated diagnostic, reporting false once the
// configured cap is reached.
func (c *Counting) record(d Diagnostic) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opts.MaxDiagnostics > 0 && len(c.items) >= c.opts.MaxDiagnostics {
		return false
	}
	c.items = append(c.items, d)
	c.counts[d.Severity]++
	if !d.Subsystem.Late() {
		c.countsEarly[d.Severity]++
	}
	return true
}

func (c *Counting) Count(sev Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[sev]
}

func (c *Counting) CountExcludingLateStages(sev Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countsEarly[sev]
}

func (c *Counting) Options() *Options {
	return c.opts
}

// Items returns a copy of the recorded diagnostics in report order.
func (c *Counting) Items() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of recorded diagnostics.
func (c *Counting) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
