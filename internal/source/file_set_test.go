package source

import (
	"testing"
)

func TestAddComputesLineIndexAndHash(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.vr", []byte("one\ntwo\nthree"))

	f := fs.Get(id)
	if len(f.LineIdx) != 2 {
		t.Fatalf("LineIdx has %d entries, want 2", len(f.LineIdx))
	}
	var zero [32]byte
	if f.Hash == zero {
		t.Fatal("content hash not computed")
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatal("virtual flag not set")
	}
}

func TestResolveSpanPositions(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.vr", []byte("one\ntwo\nthree"))

	tests := []struct {
		name  string
		off   uint32
		want  LineCol
	}{
		{"first byte", 0, LineCol{Line: 1, Col: 1}},
		{"before newline", 3, LineCol{Line: 1, Col: 4}},
		{"second line", 4, LineCol{Line: 2, Col: 1}},
		{"third line middle", 10, LineCol{Line: 3, Col: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
			if start != tt.want {
				t.Fatalf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
			}
		})
	}
}

func TestSamePathProducesNewVersion(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("a.vr", []byte("v1"))
	second := fs.AddVirtual("a.vr", []byte("v2"))

	if first == second {
		t.Fatal("expected distinct FileIDs for re-added path")
	}
	latest, ok := fs.GetLatest("a.vr")
	if !ok || latest != second {
		t.Fatalf("GetLatest = %d, want %d", latest, second)
	}
	if fs.Get(first).Hash == fs.Get(second).Hash {
		t.Fatal("expected different content hashes for different versions")
	}
}

func TestNormalize(t *testing.T) {
	content, flags := Normalize([]byte("\xEF\xBB\xBFa\r\nb"))
	if string(content) != "a\nb" {
		t.Fatalf("normalized content = %q, want %q", content, "a\nb")
	}
	if flags&FileHadBOM == 0 {
		t.Fatal("BOM flag not set")
	}
	if flags&FileNormalizedCRLF == 0 {
		t.Fatal("CRLF flag not set")
	}
}

func TestNormalizeNFC(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	content, flags := Normalize([]byte("é"))
	if string(content) != "é" {
		t.Fatalf("normalized content = %q, want %q", content, "é")
	}
	if flags&FileNormalizedNFC == 0 {
		t.Fatal("NFC flag not set")
	}
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("dir/a.vr", []byte("one\ntwo"))

	if got, want := fs.Position(Span{File: id, Start: 4, End: 7}), "dir/a.vr:2:1"; got != want {
		t.Fatalf("Position = %q, want %q", got, want)
	}
}
