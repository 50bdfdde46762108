package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 5, End: 10}
	b := Span{File: 1, Start: 2, End: 7}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 10 {
		t.Fatalf("Cover = %v, want 1:2-10", got)
	}

	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("Cover across files = %v, want unchanged %v", got, a)
	}
}

func TestSpanPredicates(t *testing.T) {
	outer := Span{File: 1, Start: 0, End: 10}
	inner := Span{File: 1, Start: 3, End: 7}
	disjoint := Span{File: 1, Start: 10, End: 12}

	if !outer.Contains(inner) {
		t.Fatal("Contains(inner) = false, want true")
	}
	if inner.Contains(outer) {
		t.Fatal("inner.Contains(outer) = true, want false")
	}
	if !outer.Overlaps(inner) {
		t.Fatal("Overlaps(inner) = false, want true")
	}
	if outer.Overlaps(disjoint) {
		t.Fatal("Overlaps(disjoint) = true, want false (half-open ranges)")
	}
	if !(Span{Start: 4, End: 4}).Empty() {
		t.Fatal("Empty = false for zero-length span")
	}
}

func TestLocNestAndWalk(t *testing.T) {
	outer := At(Span{File: 1, Start: 0, End: 5})
	inner := At(Span{File: 1, Start: 20, End: 25})
	loc := outer.Nest("caused by", inner)

	var spans []Span
	var msgs []string
	loc.Walk(func(sp Span, msg string) {
		spans = append(spans, sp)
		msgs = append(msgs, msg)
	})

	if len(spans) != 2 {
		t.Fatalf("walked %d links, want 2", len(spans))
	}
	if msgs[0] != "" || msgs[1] != "caused by" {
		t.Fatalf("relating messages = %q, want [\"\", \"caused by\"]", msgs)
	}
	if spans[1].Start != 20 {
		t.Fatalf("inner span start = %d, want 20", spans[1].Start)
	}
}
