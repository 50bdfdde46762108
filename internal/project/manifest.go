package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up in a project root.
const ManifestName = "vera.toml"

// ErrNoManifest indicates that no vera.toml exists for the project.
var ErrNoManifest = errors.New("no project manifest")

// Diagnostics configures reporting policy for one project.
type Diagnostics struct {
	WarningsAsErrors bool `toml:"warnings_as_errors"`
	DeprecationLevel int  `toml:"deprecation_level"`
	MaxDiagnostics   int  `toml:"max_diagnostics"`
}

// Verify configures the verification stage for one project.
type Verify struct {
	// Enabled is the project-wide default for whether module members get
	// verification obligations.
	Enabled  bool   `toml:"enabled"`
	CacheDir string `toml:"cache_dir"`
}

// Manifest is the parsed vera.toml for one project.
type Manifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Verify      Verify      `toml:"verify"`
}

// Default returns the manifest used when a project carries no vera.toml.
func Default() *Manifest {
	m := &Manifest{}
	m.Diagnostics.DeprecationLevel = 1
	m.Diagnostics.MaxDiagnostics = 100
	m.Verify.Enabled = true
	return m
}

// Load parses the manifest at path. Unset fields fall back to defaults.
func Load(path string) (*Manifest, error) {
	m := Default()
	meta, err := toml.DecodeFile(path, m)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoManifest
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("diagnostics", "max_diagnostics") {
		m.Diagnostics.MaxDiagnostics = 100
	}
	return m, nil
}

// LoadDir looks for vera.toml in dir. A missing manifest is not an error;
// the defaults are returned instead.
func LoadDir(dir string) (*Manifest, error) {
	m, err := Load(filepath.Join(dir, ManifestName))
	if errors.Is(err, ErrNoManifest) {
		return Default(), nil
	}
	return m, err
}
