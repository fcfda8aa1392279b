// SPDX-License-Identifier: MPL-2.0

// Package selector implements path selectors over the top-level items of
// an expanded source file.
//
// A selector is a chain of segments such as "hash::sip::SipHasher". Each
// segment names an item at the current depth; non-final segments descend
// into inline modules, which are kept as shells around their matching
// children. The wildcard segment "*" matches any named item.
package selector

import (
	"fmt"
	"strings"

	"depex-cli/pkg/rustsyn"
)

const (
	// Wildcard matches any single named item.
	Wildcard = "*"
)

// ErrInvalidSelector is returned when a selector expression cannot be parsed.
var ErrInvalidSelector = fmt.Errorf("invalid selector")

// Selector is a parsed item-path expression.
type Selector struct {
	segments []string
}

// Parse builds a Selector from an expression. Segments are separated by
// "::" or "."; each must be an identifier or the "*" wildcard.
func Parse(expr string) (Selector, error) {
	normalized := strings.ReplaceAll(expr, "::", ".")
	segments := strings.Split(normalized, ".")
	for _, seg := range segments {
		if !validSegment(seg) {
			return Selector{}, fmt.Errorf("%w: %q (segment %q)", ErrInvalidSelector, expr, seg)
		}
	}
	return Selector{segments: segments}, nil
}

// String returns the canonical "::"-separated form.
func (s Selector) String() string {
	return strings.Join(s.segments, "::")
}

// Apply returns the subset of items reachable via the selector path.
// Inline modules on the path are preserved with their child lists pruned
// to matches; items the selector does not reach are dropped. Applying a
// selector to its own output is a no-op.
func (s Selector) Apply(items []rustsyn.Item) []rustsyn.Item {
	return apply(s.segments, items)
}

func apply(segments []string, items []rustsyn.Item) []rustsyn.Item {
	var out []rustsyn.Item
	for _, item := range items {
		if !matches(segments[0], item.Name) {
			continue
		}
		if len(segments) == 1 {
			out = append(out, item)
			continue
		}
		if item.Kind != rustsyn.KindMod || !item.Inline {
			continue
		}
		kept := apply(segments[1:], item.Items)
		if len(kept) == 0 {
			continue
		}
		pruned := item
		pruned.Items = kept
		out = append(out, pruned)
	}
	return out
}

func matches(segment, name string) bool {
	if name == "" {
		return false
	}
	return segment == Wildcard || segment == name
}

func validSegment(seg string) bool {
	if seg == Wildcard {
		return true
	}
	if seg == "" {
		return false
	}
	for i, r := range seg {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f:
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
