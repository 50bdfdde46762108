package diag

import (
	"testing"

	"vera/internal/source"
)

func testLoc(file source.FileID, start, end uint32) source.Loc {
	return source.At(source.Span{File: file, Start: start, End: end})
}

func TestCountingCounts(t *testing.T) {
	r := NewCounting(nil)

	Error(r, SubParser, SynUnexpectedToken, testLoc(0, 0, 1), "bad token")
	Warning(r, SubResolver, CodeNone, testLoc(0, 2, 3), "shadowed name")
	Info(r, SubResolver, CodeNone, testLoc(0, 4, 5), "fyi")
	Error(r, SubVerifier, VerAssertionViolation, testLoc(0, 6, 7), "assertion violated")

	if got := r.Count(SevError); got != 2 {
		t.Fatalf("Count(SevError) = %d, want 2", got)
	}
	if got := r.Count(SevWarning); got != 1 {
		t.Fatalf("Count(SevWarning) = %d, want 1", got)
	}
	if got := r.CountExcludingLateStages(SevError); got != 1 {
		t.Fatalf("CountExcludingLateStages(SevError) = %d, want 1", got)
	}
	if !HasErrors(r) {
		t.Fatal("HasErrors = false, want true")
	}
}

func TestWarningsAsErrorsEscalatesBeforeCounting(t *testing.T) {
	r := NewCounting(&Options{WarningsAsErrors: true})

	if ok := Warning(r, SubResolver, CodeNone, testLoc(0, 0, 1), "suspicious"); !ok {
		t.Fatal("Report returned false, want true")
	}
	if got := r.Count(SevError); got != 1 {
		t.Fatalf("Count(SevError) = %d, want 1", got)
	}
	if got := r.Count(SevWarning); got != 0 {
		t.Fatalf("Count(SevWarning) = %d, want 0", got)
	}
	items := r.Items()
	if len(items) != 1 || items[0].Severity != SevError {
		t.Fatalf("recorded severity = %v, want SevError", items[0].Severity)
	}
}

func TestDeprecatedRespectsNoiseLevel(t *testing.T) {
	silent := NewCounting(&Options{DeprecationLevel: 0})
	if ok := Deprecated(silent, SubResolver, ResDeprecatedMember, testLoc(0, 0, 1), "old api"); ok {
		t.Fatal("Deprecated at level 0 reported, want dropped")
	}
	if got := silent.Len(); got != 0 {
		t.Fatalf("recorded %d diagnostics, want 0", got)
	}

	noisy := NewCounting(&Options{DeprecationLevel: 1})
	if ok := Deprecated(noisy, SubResolver, ResDeprecatedMember, testLoc(0, 0, 1), "old api"); !ok {
		t.Fatal("Deprecated at level 1 dropped, want reported")
	}
	if got := noisy.Count(SevWarning); got != 1 {
		t.Fatalf("Count(SevWarning) = %d, want 1", got)
	}
}

func TestMaxDiagnosticsCap(t *testing.T) {
	r := NewCounting(&Options{MaxDiagnostics: 2})

	if ok := Error(r, SubParser, CodeNone, testLoc(0, 0, 1), "one"); !ok {
		t.Fatal("first report dropped, want recorded")
	}
	if ok := Error(r, SubParser, CodeNone, testLoc(0, 1, 2), "two"); !ok {
		t.Fatal("second report dropped, want recorded")
	}
	if ok := Error(r, SubParser, CodeNone, testLoc(0, 2, 3), "three"); ok {
		t.Fatal("report past the cap recorded, want dropped")
	}
	if got := r.Count(SevError); got != 2 {
		t.Fatalf("Count(SevError) = %d, want 2", got)
	}
	if got := r.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2", got)
	}
}

func TestSilentRecordsNothing(t *testing.T) {
	r := NewSilent()
	for i := 0; i < 100; i++ {
		if ok := Error(r, SubParser, CodeNone, testLoc(0, 0, 1), "dropped"); ok {
			t.Fatal("Silent.Report returned true, want false")
		}
	}
	if got := r.Count(SevError); got != 0 {
		t.Fatalf("Count(SevError) = %d, want 0", got)
	}
	if got := r.CountExcludingLateStages(SevError); got != 0 {
		t.Fatalf("CountExcludingLateStages(SevError) = %d, want 0", got)
	}
}

func TestPrefixingForwardsWithPrefix(t *testing.T) {
	wrapped := NewCounting(nil)
	fwd := NewPrefixing(wrapped, "[included from lib.vr] ")

	Error(fwd, SubParser, SynUnexpectedToken, testLoc(0, 0, 1), "bad token")

	items := wrapped.Items()
	if len(items) != 1 {
		t.Fatalf("wrapped recorded %d diagnostics, want 1", len(items))
	}
	if got, want := items[0].Message, "[included from lib.vr] bad token"; got != want {
		t.Fatalf("forwarded message = %q, want %q", got, want)
	}
	// Local counting reflects only what passed through the forwarder, and
	// its own items keep the unprefixed message.
	if got := fwd.Count(SevError); got != 1 {
		t.Fatalf("forwarder Count(SevError) = %d, want 1", got)
	}
	if got := fwd.Items()[0].Message; got != "bad token" {
		t.Fatalf("forwarder recorded %q, want %q", got, "bad token")
	}
}

func TestPrefixingRecordsEvenWhenWrappedDiscards(t *testing.T) {
	fwd := NewPrefixing(NewSilent(), "[included from lib.vr] ")

	if ok := Error(fwd, SubParser, SynUnexpectedToken, testLoc(0, 0, 1), "bad token"); !ok {
		t.Fatal("Report = false for a locally recorded diagnostic")
	}
	if got := fwd.Count(SevError); got != 1 {
		t.Fatalf("forwarder Count(SevError) = %d, want 1", got)
	}
}

func TestPrefixingDoesNotDoubleEscalate(t *testing.T) {
	opts := &Options{WarningsAsErrors: true}
	wrapped := NewCounting(opts)
	fwd := NewPrefixing(wrapped, "[x] ")

	Warning(fwd, SubResolver, CodeNone, testLoc(0, 0, 1), "w")

	if got := fwd.Count(SevError); got != 1 {
		t.Fatalf("forwarder Count(SevError) = %d, want 1", got)
	}
	if got := wrapped.Count(SevError); got != 1 {
		t.Fatalf("wrapped Count(SevError) = %d, want 1", got)
	}
	if got := wrapped.Count(SevWarning); got != 0 {
		t.Fatalf("wrapped Count(SevWarning) = %d, want 0", got)
	}
}
