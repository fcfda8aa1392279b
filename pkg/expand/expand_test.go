// SPDX-License-Identifier: MPL-2.0

package expand

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"depex-cli/internal/cargometa"
	"depex-cli/internal/invoker"
)

type (
	// fakeMetadata resolves every lookup to a fixed package, or fails.
	fakeMetadata struct {
		pkg   *cargometa.Package
		err   error
		calls int
	}

	invokeResponse struct {
		text string
		err  error
	}

	// fakeInvoker replays scripted responses and records the manifest
	// path of every invocation.
	fakeInvoker struct {
		responses []invokeResponse
		manifests []string
		requests  []invoker.Request
	}
)

func (f *fakeMetadata) FindPackage(_ context.Context, name string) (*cargometa.Package, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pkg, nil
}

func (f *fakeInvoker) Expand(_ context.Context, req invoker.Request, manifestPath string) (string, error) {
	f.manifests = append(f.manifests, manifestPath)
	f.requests = append(f.requests, req)
	if len(f.responses) == 0 {
		return "", errors.New("fakeInvoker: no scripted response left")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp.text, resp.err
}

// packageDir lays out a registry-style package directory and returns the
// package struct pointing at its manifest.
func packageDir(t *testing.T, name, cargoToml string) *cargometa.Package {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name+"-1.0.0")
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(cargoToml), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte("pub fn f() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return &cargometa.Package{
		Name:         name,
		Version:      "1.0.0",
		Source:       "registry+https://github.com/rust-lang/crates.io-index",
		ManifestPath: filepath.Join(dir, "Cargo.toml"),
	}
}

func missingWorkspaceErr(manifestPath string) error {
	return &invoker.MissingWorkspaceError{ManifestPath: manifestPath}
}

func TestExpand_SingleInvocation(t *testing.T) {
	t.Parallel()

	pkg := packageDir(t, "anyhow", "[package]\nname = \"anyhow\"\nversion = \"1.0.0\"\n")
	inv := &fakeInvoker{responses: []invokeResponse{{text: "pub struct Error;\n"}}}
	e := NewWithDependencies(Options{}, Dependencies{
		Metadata: &fakeMetadata{pkg: pkg},
		Invoker:  inv,
	})

	got, err := e.Expand(context.Background(), "anyhow")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got != "pub struct Error;\n" {
		t.Errorf("Expand() = %q, want invoker output verbatim", got)
	}
	if len(inv.manifests) != 1 {
		t.Errorf("Expand() performed %d invocations, want 1", len(inv.manifests))
	}
	if inv.manifests[0] != pkg.ManifestPath {
		t.Errorf("Expand() used manifest %q, want %q", inv.manifests[0], pkg.ManifestPath)
	}
}

func TestExpand_PackageNotFound_NoInvocation(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{}
	e := NewWithDependencies(Options{}, Dependencies{
		Metadata: &fakeMetadata{err: &cargometa.PackageNotFoundError{Name: "nope"}},
		Invoker:  inv,
	})

	_, err := e.Expand(context.Background(), "nope")
	var notFound *cargometa.PackageNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expand() error = %v, want PackageNotFoundError", err)
	}
	if len(inv.manifests) != 0 {
		t.Errorf("Expand() performed %d invocations, want 0", len(inv.manifests))
	}
}

func TestExpand_MissingWorkspaceFallback(t *testing.T) {
	t.Parallel()

	pkg := packageDir(t, "serde", "[package]\nname = \"serde\"\nversion = \"1.0.0\"\n")
	inv := &fakeInvoker{responses: []invokeResponse{
		{err: missingWorkspaceErr(pkg.ManifestPath)},
		{text: "pub trait Serialize {}\n"},
	}}
	e := NewWithDependencies(Options{}, Dependencies{
		Metadata: &fakeMetadata{pkg: pkg},
		Invoker:  inv,
	})

	got, err := e.Expand(context.Background(), "serde")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got != "pub trait Serialize {}\n" {
		t.Errorf("Expand() = %q", got)
	}
	if len(inv.manifests) != 2 {
		t.Fatalf("Expand() performed %d invocations, want 2", len(inv.manifests))
	}

	// The retry runs against a copy that keeps the package directory's
	// final path segment.
	retry := inv.manifests[1]
	if retry == pkg.ManifestPath {
		t.Error("retry reused the original manifest instead of a copy")
	}
	if filepath.Base(filepath.Dir(retry)) != "serde-1.0.0" {
		t.Errorf("copied package dir = %q, want final segment serde-1.0.0", filepath.Dir(retry))
	}

	// The scratch copy must be gone once Expand returns.
	if _, statErr := os.Stat(filepath.Dir(retry)); !os.IsNotExist(statErr) {
		t.Errorf("scratch copy %q still exists after Expand", filepath.Dir(retry))
	}
}

func TestExpand_ScratchRemovedOnRetryFailure(t *testing.T) {
	t.Parallel()

	pkg := packageDir(t, "serde", "[package]\nname = \"serde\"\nversion = \"1.0.0\"\n")
	inv := &fakeInvoker{responses: []invokeResponse{
		{err: missingWorkspaceErr(pkg.ManifestPath)},
		{err: &invoker.EmptyOutputError{ManifestPath: "retry"}},
	}}
	e := NewWithDependencies(Options{}, Dependencies{
		Metadata: &fakeMetadata{pkg: pkg},
		Invoker:  inv,
	})

	_, err := e.Expand(context.Background(), "serde")
	if err == nil {
		t.Fatal("Expand() succeeded, want retry failure")
	}
	if len(inv.manifests) != 2 {
		t.Fatalf("Expand() performed %d invocations, want 2", len(inv.manifests))
	}
	if _, statErr := os.Stat(filepath.Dir(inv.manifests[1])); !os.IsNotExist(statErr) {
		t.Errorf("scratch copy still exists after failed Expand")
	}
}

func TestExpand_EmptyOutput_NoRecovery(t *testing.T) {
	t.Parallel()

	pkg := packageDir(t, "serde", "[package]\nname = \"serde\"\nversion = \"1.0.0\"\n")
	inv := &fakeInvoker{responses: []invokeResponse{
		{err: &invoker.EmptyOutputError{ManifestPath: pkg.ManifestPath}},
	}}
	e := NewWithDependencies(Options{}, Dependencies{
		Metadata: &fakeMetadata{pkg: pkg},
		Invoker:  inv,
	})

	_, err := e.Expand(context.Background(), "serde")
	var empty *invoker.EmptyOutputError
	if !errors.As(err, &empty) {
		t.Fatalf("Expand() error = %v, want EmptyOutputError", err)
	}
	if len(inv.manifests) != 1 {
		t.Errorf("Expand() performed %d invocations, want 1 (no recovery for empty output)", len(inv.manifests))
	}
	if !strings.Contains(err.Error(), "serde") {
		t.Errorf("error %q does not identify the failing package", err)
	}
}

func TestExpand_SecondMissingWorkspaceIsTerminal(t *testing.T) {
	t.Parallel()

	pkg := packageDir(t, "serde", "[package]\nname = \"serde\"\nversion = \"1.0.0\"\n")
	inv := &fakeInvoker{responses: []invokeResponse{
		{err: missingWorkspaceErr(pkg.ManifestPath)},
		{err: missingWorkspaceErr("copy")},
	}}
	e := NewWithDependencies(Options{}, Dependencies{
		Metadata: &fakeMetadata{pkg: pkg},
		Invoker:  inv,
	})

	_, err := e.Expand(context.Background(), "serde")
	if err == nil {
		t.Fatal("Expand() succeeded, want terminal error")
	}
	var missing *invoker.MissingWorkspaceError
	if errors.As(err, &missing) {
		t.Error("second missing-workspace failure leaked as recoverable error")
	}
	if len(inv.manifests) != 2 {
		t.Errorf("Expand() performed %d invocations, want exactly 2 (one retry)", len(inv.manifests))
	}
}

func TestExpand_FallbackRejectsVirtualCopy(t *testing.T) {
	t.Parallel()

	pkg := packageDir(t, "ws", "[workspace]\nmembers = [\"a\"]\n")
	inv := &fakeInvoker{responses: []invokeResponse{
		{err: missingWorkspaceErr(pkg.ManifestPath)},
	}}
	e := NewWithDependencies(Options{}, Dependencies{
		Metadata: &fakeMetadata{pkg: pkg},
		Invoker:  inv,
	})

	_, err := e.Expand(context.Background(), "ws")
	if err == nil {
		t.Fatal("Expand() succeeded, want error for virtual copy")
	}
	if len(inv.manifests) != 1 {
		t.Errorf("Expand() performed %d invocations, want 1 (copy rejected before retry)", len(inv.manifests))
	}
}

func TestExpand_CopyFailure(t *testing.T) {
	t.Parallel()

	pkg := &cargometa.Package{
		Name:         "ghost",
		ManifestPath: filepath.Join(t.TempDir(), "absent", "Cargo.toml"),
	}
	inv := &fakeInvoker{responses: []invokeResponse{
		{err: missingWorkspaceErr(pkg.ManifestPath)},
	}}
	e := NewWithDependencies(Options{}, Dependencies{
		Metadata: &fakeMetadata{pkg: pkg},
		Invoker:  inv,
	})

	_, err := e.Expand(context.Background(), "ghost")
	if err == nil {
		t.Fatal("Expand() succeeded, want copy failure")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error %q does not identify the failing package", err)
	}
}

func TestExpand_RequestCarriesOptions(t *testing.T) {
	t.Parallel()

	pkg := packageDir(t, "anyhow", "[package]\nname = \"anyhow\"\nversion = \"1.0.0\"\n")
	inv := &fakeInvoker{responses: []invokeResponse{{text: "fn x() {}\n"}}}
	opts := Options{}.
		AddFeature("backtrace").
		WithTests().
		WithRelease().
		AddUnstableFlag("minimal-versions")
	e := NewWithDependencies(opts, Dependencies{
		Metadata: &fakeMetadata{pkg: pkg},
		Invoker:  inv,
	})

	if _, err := e.Expand(context.Background(), "anyhow"); err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	req := inv.requests[0]
	if len(req.Features) != 1 || req.Features[0] != "backtrace" {
		t.Errorf("request features = %v", req.Features)
	}
	if !req.Tests || !req.Release {
		t.Errorf("request profile flags = %+v", req)
	}
	if len(req.UnstableFlags) != 1 || req.UnstableFlags[0] != "minimal-versions" {
		t.Errorf("request unstable flags = %v", req.UnstableFlags)
	}
}
