package cex

import (
	"vera/internal/source"
)

// Model is one solver-produced satisfying assignment: a counterexample
// trace partitioned into program states. The pipeline never interprets a
// model; it is an externally-produced, read-only document walked by
// Extract. The first state is always the initial state.
type Model struct {
	// Unit is the display name of the unit the trace refutes.
	Unit   string
	States []State
}

// State is one program point along a counterexample trace.
type State struct {
	Name string
	Pos  source.LineCol
	Vars []*Variable
}

// Variable is one binding of a state. Structured values carry their fields
// as children; expansion unfolds them up to the requested depth.
type Variable struct {
	Name     string
	Type     string
	Value    string
	Children []*Variable
}

// Item is one reported counterexample: the variable bindings of one
// non-initial state, keyed by "name:type" and rendered to value strings.
type Item struct {
	Pos      source.LineCol
	Bindings map[string]string
	// Keys preserves the insertion order of Bindings.
	Keys []string
}

func newItem(pos source.LineCol) *Item {
	return &Item{Pos: pos, Bindings: make(map[string]string)}
}

// put records a binding. A duplicate key keeps its position in the order
// but takes the later value: two same-named variables at different scope
// depth overwrite, they do not error.
func (it *Item) put(key, value string) {
	if _, ok := it.Bindings[key]; !ok {
		it.Keys = append(it.Keys, key)
	}
	it.Bindings[key] = value
}
