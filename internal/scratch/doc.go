// SPDX-License-Identifier: MPL-2.0

// Package scratch manages ephemeral working directories for build
// invocations. Every directory is process-unique and is expected to be
// removed by its creator on every exit path, success or failure.
package scratch
