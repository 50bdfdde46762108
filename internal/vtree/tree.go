package vtree

import (
	"sort"
	"sync"

	"vera/internal/source"
)

// Status is the verification state of one range of a file.
type Status uint8

const (
	// StatusPending means no verification result exists yet.
	StatusPending Status = iota
	// StatusRunning means a verification run is in flight.
	StatusRunning
	// StatusVerified means the range verified successfully.
	StatusVerified
	// StatusFailed means verification found an error in the range.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusVerified:
		return "verified"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Node is one tracked range of a file.
type Node struct {
	Span   source.Span
	Status Status
}

// Tree tracks which ranges of one file have been verified, are pending, or
// failed. A tree is exclusively owned by the snapshot chain that created
// or migrated it; chains never edit a tree still referenced elsewhere, so
// the mutex only guards the owning chain's own readers against its writer.
type Tree struct {
	mu sync.RWMutex
	// Hash is the content hash of the file version the tree describes.
	Hash  [32]byte
	nodes []Node
}

// New creates an empty tree for a file version identified by its content hash.
func New(hash [32]byte) *Tree {
	return &Tree{Hash: hash}
}

// Set records the status for a range, inserting the range when unknown.
func (t *Tree) Set(span source.Span, status Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.nodes {
		if t.nodes[i].Span == span {
			t.nodes[i].Status = status
			return
		}
	}
	t.nodes = append(t.nodes, Node{Span: span, Status: status})
}

// Get returns the status for a range.
func (t *Tree) Get(span source.Span) (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.nodes {
		if t.nodes[i].Span == span {
			return t.nodes[i].Status, true
		}
	}
	return StatusPending, false
}

// Nodes returns a copy of the tracked ranges ordered by start offset.
func (t *Tree) Nodes() []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	sort.Slice(out, func(i, j int) bool { return out[i].Span.Start < out[j].Span.Start })
	return out
}

// Len returns the number of tracked ranges.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}
