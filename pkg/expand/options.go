// SPDX-License-Identifier: MPL-2.0

package expand

import (
	"golang.org/x/exp/slices"

	"depex-cli/internal/invoker"
)

// Options is the expansion configuration. The zero value is valid. Every
// mutator operates on a copy and returns it, so built values are
// immutable by convention and mutators can be chained in any order:
//
//	opts := expand.Options{}.
//		AddFeature("derive").
//		WithTests().
//		WithManifestPath("crates/app/Cargo.toml")
type Options struct {
	features          []string
	allFeatures       bool
	noDefaultFeatures bool
	tests             bool
	release           bool
	unstableFlags     []string
	manifestPath      string
}

// AddFeature appends a feature name to activate.
func (o Options) AddFeature(name string) Options {
	o.features = append(slices.Clone(o.features), name)
	return o
}

// AddUnstableFlag appends a nightly-only -Z flag.
func (o Options) AddUnstableFlag(flag string) Options {
	o.unstableFlags = append(slices.Clone(o.unstableFlags), flag)
	return o
}

// WithAllFeatures activates all available features.
func (o Options) WithAllFeatures() Options {
	o.allFeatures = true
	return o
}

// WithNoDefaultFeatures suppresses the default feature.
func (o Options) WithNoDefaultFeatures() Options {
	o.noDefaultFeatures = true
	return o
}

// WithTests includes test code paths when expanding.
func (o Options) WithTests() Options {
	o.tests = true
	return o
}

// WithRelease builds with the optimized profile.
func (o Options) WithRelease() Options {
	o.release = true
	return o
}

// WithManifestPath sets an explicit manifest to resolve the dependency
// graph from. When unset, resolution falls back to the enclosing
// project's manifest.
func (o Options) WithManifestPath(path string) Options {
	o.manifestPath = path
	return o
}

// Features returns the accumulated feature names.
func (o Options) Features() []string {
	return slices.Clone(o.features)
}

// UnstableFlags returns the accumulated -Z flags.
func (o Options) UnstableFlags() []string {
	return slices.Clone(o.unstableFlags)
}

// ManifestPath returns the explicit manifest override, or empty.
func (o Options) ManifestPath() string {
	return o.manifestPath
}

// request maps the configuration onto a build invocation request.
func (o Options) request() invoker.Request {
	return invoker.Request{
		Features:          slices.Clone(o.features),
		AllFeatures:       o.allFeatures,
		NoDefaultFeatures: o.noDefaultFeatures,
		Tests:             o.tests,
		Release:           o.release,
		UnstableFlags:     slices.Clone(o.unstableFlags),
	}
}
