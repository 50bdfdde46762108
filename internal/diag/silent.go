package diag

// Silent discards everything. Report always answers false and every
// counter stays at zero, no matter how much is thrown at it. Used when
// diagnostics of a nested load must be dropped entirely.
type Silent struct {
	opts Options
}

// NewSilent creates a discarding reporter.
func NewSilent() *Silent {
	return &Silent{}
}

func (s *Silent) Report(Diagnostic) bool { return false }

func (s *Silent) Count(Severity) int { return 0 }

func (s *Silent) CountExcludingLateStages(Severity) int { return 0 }

func (s *Silent) Options() *Options { return &s.opts }
