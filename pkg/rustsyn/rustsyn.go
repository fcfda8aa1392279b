// SPDX-License-Identifier: MPL-2.0

package rustsyn

import (
	"fmt"
	"strings"
)

const (
	// KindMod is a module declaration or inline module block.
	KindMod Kind = "mod"
	// KindFn is a free function.
	KindFn Kind = "fn"
	// KindStruct is a struct definition.
	KindStruct Kind = "struct"
	// KindEnum is an enum definition.
	KindEnum Kind = "enum"
	// KindUnion is a union definition.
	KindUnion Kind = "union"
	// KindTrait is a trait definition.
	KindTrait Kind = "trait"
	// KindImpl is an impl block; its Name is the self type's last path segment.
	KindImpl Kind = "impl"
	// KindUse is a use declaration.
	KindUse Kind = "use"
	// KindConst is a const item.
	KindConst Kind = "const"
	// KindStatic is a static item.
	KindStatic Kind = "static"
	// KindType is a type alias.
	KindType Kind = "type"
	// KindMacro is a macro_rules! or macro definition.
	KindMacro Kind = "macro"
	// KindExternCrate is an extern crate declaration.
	KindExternCrate Kind = "extern crate"
	// KindForeignMod is an extern block.
	KindForeignMod Kind = "extern"
	// KindOther is any item the parser does not classify further.
	KindOther Kind = "other"
)

type (
	// Kind classifies a top-level item.
	Kind string

	// Item is one top-level (or module-nested) item. The source text is
	// carried verbatim; only inline modules are decomposed further so
	// their child item lists can be pruned and re-serialized.
	Item struct {
		// Kind classifies the item.
		Kind Kind
		// Name is the item's declared identifier, or the self type's last
		// path segment for impl blocks. Empty for use declarations and
		// extern blocks.
		Name string
		// Text is the item's verbatim source, attributes included.
		Text string

		// Header, InnerAttrs and Items are populated for inline modules
		// only (Inline true). Header is the text up to the opening brace.
		Header     string
		InnerAttrs []string
		Items      []Item
		Inline     bool
	}

	// File is the structural view of one source file.
	File struct {
		// Shebang is the leading interpreter line including "#!", or empty.
		Shebang string
		// Attrs are the file-level inner attributes (`#![...]`).
		Attrs []string
		// Items are the ordered top-level items.
		Items []Item
	}

	// ParseError reports a structural parse failure with its byte offset.
	ParseError struct {
		Offset int
		Msg    string
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

// Format re-serializes the file. The output is stable: formatting the
// result of a parse and re-parsing yields byte-identical text.
func (f *File) Format() string {
	var b strings.Builder
	if f.Shebang != "" {
		b.WriteString(f.Shebang)
		b.WriteByte('\n')
	}
	for _, attr := range f.Attrs {
		b.WriteString(attr)
		b.WriteByte('\n')
	}
	for _, item := range f.Items {
		item.write(&b)
		b.WriteByte('\n')
	}
	return b.String()
}

func (it *Item) write(b *strings.Builder) {
	if !it.Inline {
		b.WriteString(it.Text)
		return
	}
	b.WriteString(it.Header)
	if len(it.InnerAttrs) == 0 && len(it.Items) == 0 {
		b.WriteString(" {}")
		return
	}
	b.WriteString(" {\n")
	for _, attr := range it.InnerAttrs {
		b.WriteString(attr)
		b.WriteByte('\n')
	}
	for _, child := range it.Items {
		child.write(b)
		b.WriteByte('\n')
	}
	b.WriteByte('}')
}
