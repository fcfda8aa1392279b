// SPDX-License-Identifier: MPL-2.0

// Package manifest reads just enough of a Cargo.toml to support fallback
// recovery and diagnostics: whether the manifest declares a buildable
// package or only a [workspace] grouping, and the package name.
package manifest

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type (
	// Manifest is the subset of a Cargo.toml this tool inspects.
	Manifest struct {
		Package   *Package       `toml:"package"`
		Workspace map[string]any `toml:"workspace"`
		Lib       *Target        `toml:"lib"`
	}

	// Package is the [package] section.
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	}

	// Target is the [lib] section.
	Target struct {
		Name string `toml:"name"`
		Path string `toml:"path"`
	}
)

// Load parses the Cargo.toml at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// IsVirtual reports whether the manifest declares only a workspace
// grouping with no buildable package of its own.
func (m *Manifest) IsVirtual() bool {
	return m.Package == nil && m.Workspace != nil
}

// PackageName returns the declared package name, or empty when the
// manifest is virtual.
func (m *Manifest) PackageName() string {
	if m.Package == nil {
		return ""
	}
	return m.Package.Name
}
