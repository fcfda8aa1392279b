// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation utilities.
//
// The config package validates user configuration against an embedded CUE
// schema; this package turns the resulting CUE errors into messages with
// JSON-path context (e.g. "ui.color_scheme: expected string, got int")
// and guards against oversized input files.
package cueutil
