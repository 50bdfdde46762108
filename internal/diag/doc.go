// Package diag defines the diagnostic value type and the reporter
// hierarchy every pipeline stage reports through.
//
// Reporters compose by wrapping, not by inheritance: Counting is the base
// sink, Console adds rendering on top of it, Prefixing wraps any other
// reporter to attach provenance, and Silent drops everything. The
// warnings-as-errors escalation happens exactly once at the reporting
// entry point and is idempotent, so wrapped reporters never re-escalate a
// diagnostic that already passed through an outer layer.
//
// Reporting is total: Report returns whether the diagnostic was recorded
// and never fails.
package diag
