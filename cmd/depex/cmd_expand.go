// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"depex-cli/internal/cargometa"
	"depex-cli/internal/invoker"
	"depex-cli/internal/issue"
	"depex-cli/pkg/selector"

	"github.com/spf13/cobra"
)

// expandFlags holds the flag values for the expand command.
type expandFlags struct {
	features          []string
	allFeatures       bool
	noDefaultFeatures bool
	tests             bool
	release           bool
	unstableFlags     []string
	manifestPath      string
}

// newExpandCommand creates the `depex expand` command.
func newExpandCommand(app *App) *cobra.Command {
	flags := &expandFlags{}

	expandCmd := &cobra.Command{
		Use:   "expand <package> [selector]",
		Short: "Print the expanded source of a dependency",
		Long: `Print the macro-expanded library source of a dependency of the
current project.

The package is resolved by exact name through cargo metadata. An
optional selector narrows the output to one item path inside the
expanded source; both '::' and '.' work as segment separators and '*'
matches any single segment:

  depex expand serde serde::de::Visitor
  depex expand tokio "tokio.runtime.*"

Expansion requires a nightly toolchain, since cargo's --pretty=expanded
mode is unstable.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ExpandRequest{
				Package:           args[0],
				Features:          flags.features,
				AllFeatures:       flags.allFeatures,
				NoDefaultFeatures: flags.noDefaultFeatures,
				Tests:             flags.tests,
				Release:           flags.release,
				UnstableFlags:     flags.unstableFlags,
				ManifestPath:      flags.manifestPath,
				Verbose:           verbose,
			}
			if len(args) == 2 {
				req.Selector = args[1]
			}

			return runExpand(cmd, app, req)
		},
	}

	expandCmd.Flags().StringSliceVarP(&flags.features, "features", "F", nil, "comma-separated features to enable")
	expandCmd.Flags().BoolVar(&flags.allFeatures, "all-features", false, "enable all features of the dependency")
	expandCmd.Flags().BoolVar(&flags.noDefaultFeatures, "no-default-features", false, "disable the dependency's default features")
	expandCmd.Flags().BoolVar(&flags.tests, "tests", false, "expand in the test profile")
	expandCmd.Flags().BoolVar(&flags.release, "release", false, "expand with the release profile")
	expandCmd.Flags().StringArrayVarP(&flags.unstableFlags, "unstable-flag", "Z", nil, "unstable cargo flag to forward (repeatable)")
	expandCmd.Flags().StringVar(&flags.manifestPath, "manifest-path", "", "path to the project Cargo.toml")

	return expandCmd
}

// runExpand runs the expansion and renders errors as actionable issue
// cards where a known failure mode is recognized.
func runExpand(cmd *cobra.Command, app *App, req ExpandRequest) error {
	out, err := app.Expander.Expand(cmd.Context(), req)
	if err != nil {
		if id, ok := classifyExpandError(err); ok {
			if rendered, renderErr := issue.Lookup(id).Render("dark"); renderErr == nil {
				fmt.Fprint(app.stderr, rendered)
			}
		}
		fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprint(app.stdout, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(app.stdout)
	}

	return nil
}

// classifyExpandError maps engine failures to the issue catalog.
func classifyExpandError(err error) (issue.Id, bool) {
	var (
		notFound  *cargometa.PackageNotFoundError
		invokeErr *invoker.InvocationError
	)

	switch {
	case errors.As(err, &notFound):
		return issue.PackageNotFoundId, true
	case errors.Is(err, cargometa.ErrNoManifest):
		return issue.NoManifestId, true
	case errors.Is(err, selector.ErrInvalidSelector):
		return 0, false
	case errors.As(err, &invokeErr):
		if errors.Is(invokeErr.Err, exec.ErrNotFound) || errors.Is(invokeErr.Err, os.ErrNotExist) {
			return issue.CargoNotFoundId, true
		}
		return 0, false
	case strings.Contains(err.Error(), "-Zunstable-options"):
		// The stable toolchain rejects the expansion flags.
		return issue.NightlyRequiredId, true
	case strings.Contains(err.Error(), "virtual manifest"),
		strings.Contains(err.Error(), "declares no buildable package"):
		return issue.VirtualManifestId, true
	default:
		return 0, false
	}
}
