// SPDX-License-Identifier: MPL-2.0

// Package invoker drives one `cargo rustc` invocation shaped to emit
// pretty-printed expanded source instead of object code, and classifies
// the outcome. The only recoverable failure is the missing-workspace
// manifest condition, detected by its exact stderr signature.
package invoker
