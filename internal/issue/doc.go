// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps and
// Markdown-formatted guidance, improving the user experience when an
// expansion fails for a reason the user can fix (missing cargo binary,
// unknown dependency name, no ambient manifest).
package issue
