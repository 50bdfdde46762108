package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir
}

func TestLoadManifest(t *testing.T) {
	dir := writeManifest(t, `
[package]
name = "demo"

[diagnostics]
warnings_as_errors = true
deprecation_level = 2

[verify]
enabled = false
cache_dir = ".vera/cache"
`)
	m, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if m.Package.Name != "demo" {
		t.Fatalf("name = %q, want demo", m.Package.Name)
	}
	if !m.Diagnostics.WarningsAsErrors || m.Diagnostics.DeprecationLevel != 2 {
		t.Fatalf("diagnostics = %+v", m.Diagnostics)
	}
	if m.Verify.Enabled {
		t.Fatal("verify.enabled = true, want false")
	}
	if m.Verify.CacheDir != ".vera/cache" {
		t.Fatalf("cache_dir = %q", m.Verify.CacheDir)
	}
}

func TestLoadManifestDefaultsForUnsetFields(t *testing.T) {
	dir := writeManifest(t, "[package]\nname = \"demo\"\n")
	m, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if m.Diagnostics.DeprecationLevel != 1 {
		t.Fatalf("deprecation_level = %d, want default 1", m.Diagnostics.DeprecationLevel)
	}
	if m.Diagnostics.MaxDiagnostics != 100 {
		t.Fatalf("max_diagnostics = %d, want default 100", m.Diagnostics.MaxDiagnostics)
	}
	if !m.Verify.Enabled {
		t.Fatal("verify.enabled must default to true")
	}
}

func TestLoadDirWithoutManifest(t *testing.T) {
	m, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	want := Default()
	if *m != *want {
		t.Fatalf("manifest = %+v, want defaults %+v", m, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ManifestName))
	if !errors.Is(err, ErrNoManifest) {
		t.Fatalf("err = %v, want ErrNoManifest", err)
	}
}

func TestLoadMalformedManifest(t *testing.T) {
	dir := writeManifest(t, "[package\nname = demo")
	if _, err := LoadDir(dir); err == nil {
		t.Fatal("malformed manifest must fail")
	}
}
