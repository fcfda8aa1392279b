// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CargoNotFoundId Id = iota + 1
	PackageNotFoundId
	NoManifestId
	NightlyRequiredId
	VirtualManifestId
)

type MarkdownMsg string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

// Issue is a known, documented failure class with rendered guidance.
type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	cargoNotFoundIssue = &Issue{
		id: CargoNotFoundId,
		mdMsg: `
# cargo executable not found

depex drives expansion through the cargo toolchain, but no usable
cargo binary was found.

## Things you can try:
- Install a Rust toolchain:
~~~
$ curl https://sh.rustup.rs -sSf | sh
~~~
- Point depex at a specific binary:
~~~
$ CARGO=/path/to/cargo depex expand <package>
~~~`,
	}

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found in the dependency graph

The name you asked for does not match any package reachable from the
project manifest. Matching is exact; there is no prefix or fuzzy match.

## Things you can try:
- List what the graph actually contains:
~~~
$ cargo metadata --format-version 1 | jq '.packages[].name'
~~~
- Add the dependency to your Cargo.toml, then retry.`,
	}

	noManifestIssue = &Issue{
		id: NoManifestId,
		mdMsg: `
# No project manifest found

Neither an explicit manifest path nor an ambient project manifest was
available.

## Things you can try:
- Run from a build script context, where CARGO_MANIFEST_DIR is set.
- Pass an explicit manifest:
~~~
$ depex expand --manifest-path /path/to/Cargo.toml <package>
~~~`,
	}

	nightlyRequiredIssue = &Issue{
		id: NightlyRequiredId,
		mdMsg: `
# Expanded output is a nightly feature

The compiler rejected the expansion flags. Pretty-printed expanded
source requires unstable options.

## Things you can try:
- Install and select a nightly toolchain:
~~~
$ rustup toolchain install nightly
$ rustup default nightly
~~~`,
	}

	virtualManifestIssue = &Issue{
		id: VirtualManifestId,
		mdMsg: `
# Manifest declares no buildable package

The resolved manifest only declares a [workspace] grouping, so there is
no library target to expand.

## Things you can try:
- Name one of the workspace members instead of the workspace itself.`,
	}

	issues = map[Id]*Issue{
		CargoNotFoundId:   cargoNotFoundIssue,
		PackageNotFoundId: packageNotFoundIssue,
		NoManifestId:      noManifestIssue,
		NightlyRequiredId: nightlyRequiredIssue,
		VirtualManifestId: virtualManifestIssue,
	}
)

// Lookup returns the Issue for id, or nil when the id is unknown.
func Lookup(id Id) *Issue {
	return issues[id]
}

// Ids returns all known issue ids in ascending order.
func Ids() []Id {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	return ids
}
