// SPDX-License-Identifier: MPL-2.0

// Package rustsyn provides a structural, item-granular view of expanded
// Rust source text.
//
// The parser recognizes just enough of the language to split a file into
// its shebang, file-level inner attributes, and ordered top-level items,
// recursing into inline `mod` blocks so path selectors can descend. Item
// bodies are carried as verbatim text; nothing below item granularity is
// interpreted. This is sufficient for filtering compiler-emitted expanded
// output, which is always a syntactically complete file.
package rustsyn
