// SPDX-License-Identifier: MPL-2.0

// Package cargometa resolves dependency names to concrete manifest
// locations through `cargo metadata`. The dependency graph is always
// queried with all features enabled so a later expansion can request any
// feature subset.
package cargometa
