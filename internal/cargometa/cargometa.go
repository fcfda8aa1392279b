// SPDX-License-Identifier: MPL-2.0

package cargometa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

type (
	// Runner executes a metadata query subprocess and returns its stdout.
	// Production code uses ExecRunner; tests substitute fakes.
	Runner interface {
		Output(ctx context.Context, bin string, args ...string) ([]byte, error)
	}

	// Package is one resolved package from the dependency graph.
	Package struct {
		// Name is the declared package name.
		Name string `json:"name"`
		// Version is the resolved semantic version.
		Version string `json:"version"`
		// ID is cargo's opaque package identifier.
		ID string `json:"id"`
		// Source identifies the registry or path provenance; empty for
		// local workspace members.
		Source string `json:"source"`
		// ManifestPath is the absolute path of the package's Cargo.toml.
		ManifestPath string `json:"manifest_path"`
	}

	// Metadata is the decoded package graph.
	Metadata struct {
		Packages []Package `json:"packages"`
	}

	// Resolver queries the dependency graph for a project. All lookup
	// inputs are explicit fields so tests can inject fixed values instead
	// of reading the process environment.
	Resolver struct {
		// CargoBin is the cargo executable to invoke.
		CargoBin string
		// ManifestPath is an explicit manifest override; when empty the
		// ambient project manifest under ManifestDir is used.
		ManifestPath string
		// ManifestDir is the ambient project directory, conventionally
		// taken from $CARGO_MANIFEST_DIR by the caller.
		ManifestDir string
		// Runner executes the metadata subprocess.
		Runner Runner
	}

	// PackageNotFoundError is returned when no package in the resolved
	// graph matches the requested name.
	PackageNotFoundError struct {
		Name string
	}

	// QueryError is returned when the metadata query itself fails
	// (malformed manifest, subprocess failure, undecodable output).
	QueryError struct {
		Err error
	}

	// ExecRunner runs subprocesses with os/exec.
	ExecRunner struct{}
)

// ErrNoManifest is returned when neither an explicit manifest path nor an
// ambient project directory is available.
var ErrNoManifest = errors.New("no manifest found")

// Error implements the error interface.
func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("no package found with matching name: %q", e.Name)
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("metadata query failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Output runs bin with args and returns its stdout. Stderr is folded into
// the returned error on failure.
func (ExecRunner) Output(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// resolveManifestPath picks the manifest the graph is resolved from: the
// explicit override when set, else the ambient project's Cargo.toml.
func (r *Resolver) resolveManifestPath() (string, error) {
	if r.ManifestPath != "" {
		return r.ManifestPath, nil
	}
	if r.ManifestDir != "" {
		return filepath.Join(r.ManifestDir, "Cargo.toml"), nil
	}
	return "", fmt.Errorf("%w: set an explicit manifest path or CARGO_MANIFEST_DIR", ErrNoManifest)
}

// Load queries and decodes the full dependency graph with all features
// enabled.
func (r *Resolver) Load(ctx context.Context) (*Metadata, error) {
	manifestPath, err := r.resolveManifestPath()
	if err != nil {
		return nil, err
	}

	out, err := r.Runner.Output(ctx, r.CargoBin,
		"metadata",
		"--format-version", "1",
		"--all-features",
		"--manifest-path", manifestPath,
	)
	if err != nil {
		return nil, &QueryError{Err: err}
	}

	var meta Metadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, &QueryError{Err: fmt.Errorf("failed to decode metadata output: %w", err)}
	}
	return &meta, nil
}

// FindPackage resolves name to a package by exact string equality. When
// multiple packages share a name across disjoint dependency trees the
// first structural match wins; callers needing disambiguation must query
// with a narrower manifest.
func (r *Resolver) FindPackage(ctx context.Context, name string) (*Package, error) {
	meta, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range meta.Packages {
		if meta.Packages[i].Name == name {
			return &meta.Packages[i], nil
		}
	}
	return nil, &PackageNotFoundError{Name: name}
}
