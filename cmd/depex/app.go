// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"depex-cli/internal/cargometa"
	"depex-cli/internal/config"
	"depex-cli/internal/invoker"
	"depex-cli/internal/issue"
	"depex-cli/pkg/expand"
	"depex-cli/pkg/selector"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer — all Cobra command handlers receive an App
	// reference and delegate business logic through its service interfaces.
	App struct {
		Config   ConfigProvider
		Expander ExpandService
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests can
	// supply mock implementations to isolate specific service behavior.
	Dependencies struct {
		Config   ConfigProvider
		Expander ExpandService
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ExpandRequest captures all CLI expansion inputs as an immutable value.
	// It is the request-scoped data contract between the Cobra handlers and
	// the ExpandService implementation.
	ExpandRequest struct {
		// Package is the dependency name to expand (e.g. "serde").
		Package string
		// Selector is an optional item path filter (e.g. "serde::de::Visitor").
		// Zero value ("") means the full expansion is returned.
		Selector string
		// Features are additional cargo features to enable.
		Features []string
		// AllFeatures enables every feature of the dependency.
		AllFeatures bool
		// NoDefaultFeatures disables the dependency's default feature set.
		NoDefaultFeatures bool
		// Tests expands in the test profile (includes #[cfg(test)] items).
		Tests bool
		// Release expands with the release profile.
		Release bool
		// UnstableFlags are -Z flags forwarded to cargo.
		UnstableFlags []string
		// ManifestPath overrides the project manifest location.
		ManifestPath string
		// Verbose enables verbose diagnostic output.
		Verbose bool
	}

	// ExpandService resolves a dependency and returns its expanded source.
	// Implementations must not write results to stdout; the rendered source
	// is returned for the CLI layer to print.
	ExpandService interface {
		Expand(ctx context.Context, req ExpandRequest) (string, error)
	}

	// ConfigProvider loads configuration for command handlers.
	ConfigProvider interface {
		Load(ctx context.Context) (*config.Config, error)
		ConfigFilePath() string
	}

	// appExpandService implements ExpandService against the real cargo
	// toolchain, layering request values over configured defaults.
	appExpandService struct {
		config ConfigProvider
		stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.DefaultProvider()
	}
	if deps.Expander == nil {
		deps.Expander = &appExpandService{config: deps.Config, stderr: deps.Stderr}
	}

	return &App{
		Config:   deps.Config,
		Expander: deps.Expander,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// Expand resolves the request against configuration defaults and runs the
// expansion engine. A config load failure keeps the command operational
// with defaults and emits a warning, except when the user explicitly
// pointed at a config file.
func (s *appExpandService) Expand(ctx context.Context, req ExpandRequest) (string, error) {
	cfg, err := s.config.Load(ctx)
	if err != nil {
		// An explicitly requested config file must work; only the default
		// lookup path degrades to built-in defaults.
		if config.ConfigFilePathOverride() != "" {
			return "", err
		}
		fmt.Fprintln(s.stderr, WarningStyle.Render("Warning: ")+fmt.Sprintf("failed to load config, using defaults: %v", err))
		cfg = config.DefaultConfig()
	}

	opts := optionsFromRequest(req, cfg)

	cargoBin := cargoBinFor(cfg)

	logger := log.NewWithOptions(s.stderr, log.Options{Prefix: "depex"})
	if req.Verbose || cfg.UI.Verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	engine := expand.NewWithDependencies(opts, expand.Dependencies{
		Metadata: &cargometa.Resolver{
			CargoBin:     cargoBin,
			ManifestPath: opts.ManifestPath(),
			ManifestDir:  os.Getenv("CARGO_MANIFEST_DIR"),
			Runner:       cargometa.ExecRunner{},
		},
		Invoker: &invoker.Invoker{
			CargoBin: cargoBin,
			Runner:   invoker.ExecRunner{},
		},
		Log: logger,
	})

	if req.Selector == "" {
		return engine.Expand(ctx, req.Package)
	}

	sel, err := selector.Parse(req.Selector)
	if err != nil {
		return "", issue.WrapWithOperation(err, "parse selector "+req.Selector)
	}

	return engine.ExpandPath(ctx, req.Package, sel)
}

// optionsFromRequest merges configured expansion defaults with the
// request; request values always win over configuration.
func optionsFromRequest(req ExpandRequest, cfg *config.Config) expand.Options {
	var opts expand.Options

	for _, f := range cfg.Expand.Features {
		opts = opts.AddFeature(f)
	}
	for _, f := range req.Features {
		opts = opts.AddFeature(f)
	}
	if req.AllFeatures || cfg.Expand.AllFeatures {
		opts = opts.WithAllFeatures()
	}
	if req.NoDefaultFeatures || cfg.Expand.NoDefaultFeatures {
		opts = opts.WithNoDefaultFeatures()
	}
	if req.Tests || cfg.Expand.Tests {
		opts = opts.WithTests()
	}
	if req.Release || cfg.Expand.Release {
		opts = opts.WithRelease()
	}
	for _, z := range cfg.Expand.UnstableFlags {
		opts = opts.AddUnstableFlag(z)
	}
	for _, z := range req.UnstableFlags {
		opts = opts.AddUnstableFlag(z)
	}
	if req.ManifestPath != "" {
		opts = opts.WithManifestPath(req.ManifestPath)
	}

	return opts
}

// cargoBinFor resolves the cargo executable: the conventional $CARGO
// override wins over configuration.
func cargoBinFor(cfg *config.Config) string {
	if bin := os.Getenv("CARGO"); bin != "" {
		return bin
	}
	if cfg.CargoBin != "" {
		return cfg.CargoBin
	}
	return "cargo"
}
