// SPDX-License-Identifier: MPL-2.0

package invoker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"depex-cli/internal/scratch"
)

const (
	// missingWorkspacePrefix opens cargo's refusal to build a bare
	// registry manifest.
	missingWorkspacePrefix = "error: failed to parse manifest"
	// missingWorkspaceSuffix closes it, after trailing whitespace is
	// trimmed.
	missingWorkspaceSuffix = "virtual manifests must be configured with [workspace]"

	// outputFileName is the file the compiler is told to write expanded
	// source into, inside a per-invocation scratch directory.
	outputFileName = "expanded"
)

type (
	// Runner spawns the build subprocess and captures its stderr. A
	// non-nil error means the process could not be spawned or waited on;
	// a non-zero exit status alone is not an error, because the outcome
	// is classified from stderr and the output file instead.
	Runner interface {
		Run(ctx context.Context, bin string, args []string) (stderr []byte, err error)
	}

	// Request carries the flag-relevant subset of an expansion
	// configuration.
	Request struct {
		// Features are named features to activate, in order.
		Features []string
		// AllFeatures activates every available feature.
		AllFeatures bool
		// NoDefaultFeatures suppresses the default feature.
		NoDefaultFeatures bool
		// Tests selects the test profile instead of the check profile.
		Tests bool
		// Release builds with optimizations.
		Release bool
		// UnstableFlags are nightly-only -Z flags, in order.
		UnstableFlags []string
	}

	// Invoker runs expansion builds with a fixed cargo binary.
	Invoker struct {
		// CargoBin is the cargo executable, conventionally overridable
		// via $CARGO by the caller.
		CargoBin string
		// Runner executes the subprocess; tests substitute fakes.
		Runner Runner
	}

	// MissingWorkspaceError marks the single recoverable failure: the
	// manifest lacks workspace context, as happens for bare registry
	// package copies.
	MissingWorkspaceError struct {
		ManifestPath string
	}

	// InvocationError means the build subprocess could not be spawned or
	// waited on.
	InvocationError struct {
		Err error
	}

	// EmptyOutputError means the compiler ran but produced no expanded
	// output.
	EmptyOutputError struct {
		ManifestPath string
	}

	// ExecRunner runs subprocesses with os/exec, inheriting nothing and
	// capturing stderr only.
	ExecRunner struct{}
)

// Error implements the error interface.
func (e *MissingWorkspaceError) Error() string {
	return fmt.Sprintf("%s: %s", e.ManifestPath, missingWorkspaceSuffix)
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("failed to invoke build tool: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Error implements the error interface.
func (e *EmptyOutputError) Error() string {
	return fmt.Sprintf("%s: compiler produced no expanded output", e.ManifestPath)
}

// Run executes bin synchronously and returns captured stderr. Non-zero
// exits are reported through the stderr text, not the error.
func (ExecRunner) Run(ctx context.Context, bin string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return stderr.Bytes(), err
	}
	return stderr.Bytes(), nil
}

// BuildArgs constructs the cargo rustc argument vector for one expansion
// build writing to outFile.
func BuildArgs(req Request, manifestPath, outFile string) []string {
	args := []string{"rustc"}

	if req.Tests {
		args = append(args, "--profile=test")
	} else {
		args = append(args, "--profile=check")
	}
	if req.Release {
		args = append(args, "--release")
	}
	if len(req.Features) > 0 {
		args = append(args, "--features", strings.Join(req.Features, " "))
	}
	if req.AllFeatures {
		args = append(args, "--all-features")
	}
	if req.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}

	args = append(args, "--lib", "--manifest-path", manifestPath)

	for _, flag := range req.UnstableFlags {
		args = append(args, "-Z", flag)
	}

	return append(args,
		"--",
		"-o", outFile,
		"-Zunstable-options",
		"--pretty=expanded",
	)
}

// Expand runs one build against manifestPath and returns the expanded
// source text. The scratch directory holding the output file is removed
// before returning on every path.
func (iv *Invoker) Expand(ctx context.Context, req Request, manifestPath string) (string, error) {
	outDir, err := scratch.New("depex")
	if err != nil {
		return "", err
	}
	defer outDir.Remove()

	outFile := outDir.Join(outputFileName)
	stderr, runErr := iv.Runner.Run(ctx, iv.CargoBin, BuildArgs(req, manifestPath, outFile))

	// The signature takes precedence over the exit code: cargo reports it
	// with a failing exit, but the condition is recoverable.
	if isMissingWorkspace(stderr) {
		return "", &MissingWorkspaceError{ManifestPath: manifestPath}
	}
	if runErr != nil {
		return "", &InvocationError{Err: runErr}
	}

	content, err := os.ReadFile(outFile)
	if err != nil {
		return "", fmt.Errorf("failed to read expanded output: %w", err)
	}
	if len(content) == 0 {
		return "", &EmptyOutputError{ManifestPath: manifestPath}
	}
	return string(content), nil
}

// isMissingWorkspace matches cargo's exact refusal signature for bare
// virtual-manifest-adjacent package copies.
func isMissingWorkspace(stderr []byte) bool {
	text := string(stderr)
	return strings.HasPrefix(text, missingWorkspacePrefix) &&
		strings.HasSuffix(strings.TrimRight(text, " \t\r\n"), missingWorkspaceSuffix)
}
