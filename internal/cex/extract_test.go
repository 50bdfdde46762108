package cex

import (
	"testing"

	"vera/internal/source"
)

func traceModel() *Model {
	return &Model{
		Unit: "Main.sum",
		States: []State{
			{Name: "<initial>", Pos: source.LineCol{Line: 1, Col: 1}},
			{
				Name: "after assignment",
				Pos:  source.LineCol{Line: 3, Col: 5},
				Vars: []*Variable{
					{Name: "a", Type: "int", Value: "7"},
					{
						Name: "p", Type: "Point", Value: "(x := 1, y := 2)",
						Children: []*Variable{
							{Name: "x", Type: "int", Value: "1"},
							{
								Name: "y", Type: "int", Value: "2",
								Children: []*Variable{{Name: "bits", Type: "seq<bool>", Value: "[false, true]"}},
							},
						},
					},
				},
			},
			{
				Name: "return",
				Pos:  source.LineCol{Line: 5, Col: 3},
				Vars: []*Variable{{Name: "a", Type: "int", Value: "14"}},
			},
		},
	}
}

func TestExtractSkipsInitialState(t *testing.T) {
	items := Extract([]*Model{traceModel()}, 0)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (initial state excluded)", len(items))
	}
	if items[0].Pos != (source.LineCol{Line: 3, Col: 5}) {
		t.Fatalf("first item at %+v, want 3:5", items[0].Pos)
	}
	if items[1].Pos != (source.LineCol{Line: 5, Col: 3}) {
		t.Fatalf("second item at %+v, want 5:3", items[1].Pos)
	}
}

func TestExtractDepthZeroStaysTopLevel(t *testing.T) {
	items := Extract([]*Model{traceModel()}, 0)
	first := items[0]
	if got := first.Bindings["a:int"]; got != "7" {
		t.Fatalf("a:int = %q, want 7", got)
	}
	if got := first.Bindings["p:Point"]; got != "(x := 1, y := 2)" {
		t.Fatalf("p:Point = %q, want rendered value", got)
	}
	if _, ok := first.Bindings["p.x:int"]; ok {
		t.Fatal("depth 0 must not unfold structured values")
	}
}

func TestExtractDepthUnfoldsOneLevelPerIncrement(t *testing.T) {
	depth1 := Extract([]*Model{traceModel()}, 1)[0]
	if got := depth1.Bindings["p.x:int"]; got != "1" {
		t.Fatalf("p.x:int = %q, want 1", got)
	}
	if _, ok := depth1.Bindings["p.y.bits:seq<bool>"]; ok {
		t.Fatal("depth 1 must not unfold two levels")
	}

	depth2 := Extract([]*Model{traceModel()}, 2)[0]
	if got := depth2.Bindings["p.y.bits:seq<bool>"]; got != "[false, true]" {
		t.Fatalf("p.y.bits = %q, want [false, true]", got)
	}
}

func TestExtractMonotonicInDepth(t *testing.T) {
	prev := Extract([]*Model{traceModel()}, 0)
	for depth := 1; depth <= 3; depth++ {
		next := Extract([]*Model{traceModel()}, depth)
		for i, item := range prev {
			for key := range item.Bindings {
				if _, ok := next[i].Bindings[key]; !ok {
					t.Fatalf("depth %d dropped key %q present at depth %d", depth, key, depth-1)
				}
			}
		}
		prev = next
	}
}

func TestExtractDuplicateKeyLaterWins(t *testing.T) {
	model := &Model{States: []State{
		{},
		{Vars: []*Variable{
			{Name: "i", Type: "int", Value: "1"},
			{Name: "i", Type: "int", Value: "2"},
		}},
	}}
	items := Extract([]*Model{model}, 0)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if got := items[0].Bindings["i:int"]; got != "2" {
		t.Fatalf("i:int = %q, want the later binding 2", got)
	}
	if len(items[0].Keys) != 1 {
		t.Fatalf("got %d keys, want 1", len(items[0].Keys))
	}
}

func TestExtractEmptyAndDegenerateModels(t *testing.T) {
	onlyInitial := &Model{States: []State{{Name: "<initial>"}}}
	if items := Extract([]*Model{onlyInitial}, 0); len(items) != 0 {
		t.Fatalf("model with only the initial state produced %d items, want 0", len(items))
	}
	if items := Extract(nil, 5); items != nil {
		t.Fatal("no models must produce no items")
	}
	if items := Extract([]*Model{nil}, 0); len(items) != 0 {
		t.Fatal("nil model must be skipped")
	}
}

func TestExtractPreservesModelOrder(t *testing.T) {
	a := &Model{States: []State{{}, {Pos: source.LineCol{Line: 1, Col: 1}}}}
	b := &Model{States: []State{{}, {Pos: source.LineCol{Line: 2, Col: 1}}, {Pos: source.LineCol{Line: 3, Col: 1}}}}

	items := Extract([]*Model{a, b}, 0)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	wantLines := []uint32{1, 2, 3}
	for i, item := range items {
		if item.Pos.Line != wantLines[i] {
			t.Fatalf("item %d at line %d, want %d (model-major order)", i, item.Pos.Line, wantLines[i])
		}
	}
}
