// SPDX-License-Identifier: MPL-2.0

package expand

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"depex-cli/internal/cargometa"
	"depex-cli/internal/invoker"
	"depex-cli/internal/manifest"
	"depex-cli/internal/scratch"
	"depex-cli/pkg/selector"
)

type (
	// MetadataResolver resolves a dependency name to a concrete package.
	MetadataResolver interface {
		FindPackage(ctx context.Context, name string) (*cargometa.Package, error)
	}

	// BuildInvoker runs one expansion build against a manifest.
	BuildInvoker interface {
		Expand(ctx context.Context, req invoker.Request, manifestPath string) (string, error)
	}

	// Expander composes metadata resolution, build invocation, and the
	// missing-workspace fallback into the two public operations.
	Expander struct {
		opts     Options
		metadata MetadataResolver
		invoker  BuildInvoker
		log      *log.Logger
	}

	// Dependencies defines the injection points for building an Expander.
	// Nil fields are replaced with production defaults by NewWithDependencies.
	// Tests supply fakes to simulate tool behavior without invoking cargo.
	Dependencies struct {
		Metadata MetadataResolver
		Invoker  BuildInvoker
		Log      *log.Logger
	}
)

// New creates an Expander wired to the real cargo toolchain. The cargo
// executable honors the conventional $CARGO override and the ambient
// project manifest is located via $CARGO_MANIFEST_DIR; both environment
// reads happen here, once, so the rest of the engine takes explicit
// inputs only.
func New(opts Options) *Expander {
	cargoBin := os.Getenv("CARGO")
	if cargoBin == "" {
		cargoBin = "cargo"
	}
	return NewWithDependencies(opts, Dependencies{
		Metadata: &cargometa.Resolver{
			CargoBin:     cargoBin,
			ManifestPath: opts.manifestPath,
			ManifestDir:  os.Getenv("CARGO_MANIFEST_DIR"),
			Runner:       cargometa.ExecRunner{},
		},
		Invoker: &invoker.Invoker{
			CargoBin: cargoBin,
			Runner:   invoker.ExecRunner{},
		},
	})
}

// NewWithDependencies creates an Expander from explicit collaborators.
func NewWithDependencies(opts Options, deps Dependencies) *Expander {
	logger := deps.Log
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Expander{
		opts:     opts,
		metadata: deps.Metadata,
		invoker:  deps.Invoker,
		log:      logger,
	}
}

// Expand returns the expanded library source of the named dependency.
//
// The dependency is resolved through the project metadata graph, then one
// build invocation materializes the expanded source. When cargo refuses
// the manifest for lack of workspace context (registry packages are not
// part of any local workspace), the package tree is copied into an
// isolated scratch directory and the build is retried there exactly once.
func (e *Expander) Expand(ctx context.Context, name string) (string, error) {
	pkg, err := e.metadata.FindPackage(ctx, name)
	if err != nil {
		return "", err
	}
	e.log.Debug("resolved package", "name", pkg.Name, "manifest", pkg.ManifestPath)

	text, err := e.invoker.Expand(ctx, e.opts.request(), pkg.ManifestPath)
	var missing *invoker.MissingWorkspaceError
	if errors.As(err, &missing) {
		e.log.Debug("manifest lacks workspace context, retrying on a private copy",
			"manifest", pkg.ManifestPath)
		return e.expandIsolated(ctx, pkg)
	}
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", name, err)
	}
	return text, nil
}

// expandIsolated retries the build against a private copy of the package
// directory. Exactly one retry is attempted; every failure on the retry,
// including a second missing-workspace refusal, is terminal.
func (e *Expander) expandIsolated(ctx context.Context, pkg *cargometa.Package) (string, error) {
	tmp, err := scratch.New("depex-" + pkg.Name)
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", pkg.Name, err)
	}
	defer tmp.Remove()

	copied, err := scratch.CopyTree(filepath.Dir(pkg.ManifestPath), tmp.Path())
	if err != nil {
		return "", fmt.Errorf("failed to copy %s for isolated expansion: %w", pkg.Name, err)
	}

	copiedManifest := filepath.Join(copied, "Cargo.toml")
	m, err := manifest.Load(copiedManifest)
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", pkg.Name, err)
	}
	if m.IsVirtual() {
		return "", fmt.Errorf("failed to expand %s: %s declares no buildable package", pkg.Name, copiedManifest)
	}

	text, err := e.invoker.Expand(ctx, e.opts.request(), copiedManifest)
	var missing *invoker.MissingWorkspaceError
	if errors.As(err, &missing) {
		// The recovery path exists for exactly this condition; hitting it
		// again is a terminal tool failure, not another recovery trigger.
		return "", fmt.Errorf("failed to expand %s after isolated copy: %s", pkg.Name, missing.Error())
	}
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", pkg.Name, err)
	}
	return text, nil
}

// ExpandPath expands the named dependency and filters the result down to
// the items reachable via sel.
func (e *Expander) ExpandPath(ctx context.Context, name string, sel selector.Selector) (string, error) {
	content, err := e.Expand(ctx, name)
	if err != nil {
		return "", err
	}
	return Filter(content, sel)
}
