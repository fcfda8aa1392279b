// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for depex.
//
// This package implements the Cobra command hierarchy for the depex CLI,
// a tool that prints the macro-expanded source of a cargo dependency.
// Command handlers are thin: they parse flags into request values and
// delegate to the App composition root, which wires configuration and
// the expansion engine behind narrow service interfaces so tests can
// substitute fakes.
package cmd
