// Package pipeline turns source text into a chain of immutable
// compilation snapshots: Unloaded, AfterParsing, AfterResolution,
// AfterVerification. Each stage holds the previous stage's data plus new
// results; an edit produces a new chain and migrates compatible
// verification progress from the old one instead of recomputing it.
//
// Parse and resolve phases of every open compilation serialize onto one
// dedicated load worker. Verification fans out independently per unit and
// fills its snapshot incrementally. The manager owns publication: versions
// apply last-writer-wins, stages apply in pipeline order, and stale
// in-flight work is discarded by version comparison rather than locking.
//
// The grammar, the resolution algorithm, verification-condition
// generation and the solver itself are external collaborators consumed
// through the interfaces in collab.go.
package pipeline
