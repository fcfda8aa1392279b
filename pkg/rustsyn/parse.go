// SPDX-License-Identifier: MPL-2.0

package rustsyn

import (
	"fmt"
	"strings"
)

type termMode int

const (
	// termEither ends the item at a top-level ';' or at the close of the
	// first top-level brace block, whichever comes first.
	termEither termMode = iota
	// termSemi ends the item only at a top-level ';' (brace blocks in
	// initializer position are consumed whole).
	termSemi
	// termBlock ends the item at the close of the first top-level brace
	// block.
	termBlock
)

// Parse splits src into shebang, file-level inner attributes, and ordered
// top-level items. Input must be a syntactically complete file; partial
// output from the compiler is a hard error.
func Parse(src string) (*File, error) {
	f := &File{}
	s := newScanner(src)

	// A leading "#!" is a shebang unless it opens an inner attribute.
	if strings.HasPrefix(src, "#!") && (len(src) == 2 || src[2] != '[') {
		end := strings.IndexByte(src, '\n')
		if end < 0 {
			end = len(src)
		}
		f.Shebang = src[:end]
		s.pos = end
	}

	items, attrs, err := parseItems(s, false)
	if err != nil {
		return nil, err
	}
	f.Attrs = attrs
	f.Items = items
	return f, nil
}

// parseItems consumes items until end of input, or until the closing brace
// of the enclosing module when inMod is set. Inner attributes encountered
// at this level are returned separately.
func parseItems(s *scanner, inMod bool) ([]Item, []string, error) {
	var items []Item
	var attrs []string
	for {
		s.skipWhitespace()
		if s.eof() {
			if inMod {
				return nil, nil, &ParseError{Offset: s.pos, Msg: "unexpected end of input, expected '}'"}
			}
			return items, attrs, nil
		}
		if inMod && s.peek() == '}' {
			return items, attrs, nil
		}
		if s.peek() == '#' && s.peekAt(1) == '!' && s.peekAt(2) == '[' {
			start := s.pos
			s.pos += 2
			if err := s.consumeBalanced('[', ']'); err != nil {
				return nil, nil, err
			}
			attrs = append(attrs, s.src[start:s.pos])
			continue
		}
		item, err := parseItem(s)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, *item)
	}
}

// parseItem consumes one item. The head is tokenized just far enough to
// classify the item, pick up its name, and choose how it terminates; the
// remainder is consumed as opaque text.
func parseItem(s *scanner) (*Item, error) {
	start := s.pos

	for s.peek() == '#' && s.peekAt(1) == '[' {
		s.pos++
		if err := s.consumeBalanced('[', ']'); err != nil {
			return nil, err
		}
		s.skipWhitespace()
	}

	item := &Item{Kind: KindOther}
	mode := termEither
	sawExtern := false

head:
	for {
		s.skipWhitespace()
		c := s.peek()
		if c == 0 {
			return nil, &ParseError{Offset: s.pos, Msg: "unexpected end of input in item"}
		}
		if c == '"' && sawExtern {
			// ABI string of extern "C" fn / extern "C" { ... }.
			s.next()
			continue
		}
		if !isIdentStart(c) {
			if sawExtern && c == '{' {
				item.Kind = KindForeignMod
				mode = termBlock
			}
			break head
		}

		word := s.ident()
		switch word {
		case "pub":
			s.skipWhitespace()
			if s.peek() == '(' {
				if err := s.consumeBalanced('(', ')'); err != nil {
					return nil, err
				}
			}
		case "unsafe", "async", "default":
			// modifiers, keep scanning
		case "extern":
			sawExtern = true
		case "crate":
			if !sawExtern {
				continue
			}
			item.Kind = KindExternCrate
			s.skipWhitespace()
			item.Name = s.ident()
			mode = termSemi
			break head
		case "const":
			if next := s.peekIdent(); next == "fn" || next == "unsafe" || next == "extern" || next == "async" {
				continue
			}
			item.Kind = KindConst
			s.skipWhitespace()
			item.Name = s.ident()
			mode = termSemi
			break head
		case "static":
			item.Kind = KindStatic
			s.skipWhitespace()
			name := s.ident()
			if name == "mut" {
				s.skipWhitespace()
				name = s.ident()
			}
			item.Name = name
			mode = termSemi
			break head
		case "use":
			item.Kind = KindUse
			mode = termSemi
			break head
		case "type":
			item.Kind = KindType
			s.skipWhitespace()
			item.Name = s.ident()
			mode = termSemi
			break head
		case "mod":
			item.Kind = KindMod
			s.skipWhitespace()
			item.Name = s.ident()
			return parseModRest(s, item, start)
		case "fn":
			item.Kind = KindFn
			s.skipWhitespace()
			item.Name = s.ident()
			mode = termBlock
			break head
		case "struct":
			item.Kind = KindStruct
			s.skipWhitespace()
			item.Name = s.ident()
			mode = termEither
			break head
		case "enum", "union", "trait":
			item.Kind = Kind(word)
			s.skipWhitespace()
			item.Name = s.ident()
			mode = termBlock
			break head
		case "impl":
			item.Kind = KindImpl
			name, err := s.implSelfType()
			if err != nil {
				return nil, err
			}
			item.Name = name
			mode = termBlock
			break head
		case "macro_rules":
			item.Kind = KindMacro
			s.skipWhitespace()
			if s.peek() == '!' {
				s.pos++
			}
			s.skipWhitespace()
			item.Name = s.ident()
			mode = termEither
			break head
		case "macro":
			item.Kind = KindMacro
			s.skipWhitespace()
			item.Name = s.ident()
			mode = termBlock
			break head
		default:
			// Unrecognized head (macro invocation, path, etc.); consume
			// generically.
			break head
		}
	}

	if err := scanBody(s, mode); err != nil {
		return nil, err
	}
	item.Text = strings.TrimSpace(s.src[start:s.pos])
	return item, nil
}

// parseModRest finishes a mod item after its name: either a declaration
// (`mod x;`) or an inline block whose children are parsed recursively.
func parseModRest(s *scanner, item *Item, start int) (*Item, error) {
	s.skipWhitespace()
	switch s.peek() {
	case ';':
		s.pos++
		item.Text = strings.TrimSpace(s.src[start:s.pos])
		return item, nil
	case '{':
		item.Header = strings.TrimSpace(s.src[start:s.pos])
		s.pos++
		children, inner, err := parseItems(s, true)
		if err != nil {
			return nil, err
		}
		if s.peek() != '}' {
			return nil, &ParseError{Offset: s.pos, Msg: "expected '}' closing module " + item.Name}
		}
		s.pos++
		item.Inline = true
		item.InnerAttrs = inner
		item.Items = children
		item.Text = strings.TrimSpace(s.src[start:s.pos])
		return item, nil
	default:
		return nil, &ParseError{Offset: s.pos, Msg: "expected ';' or '{' after mod " + item.Name}
	}
}

// scanBody consumes the remainder of an item according to mode. Angle
// depth is tracked so a brace-wrapped const-generic expression in the
// header (`Foo<{ N + 1 }>`) is consumed as part of the argument list and
// not mistaken for the item body.
func scanBody(s *scanner, mode termMode) error {
	angle := 0
	for !s.eof() {
		switch s.peek() {
		case ';':
			s.pos++
			if mode != termBlock {
				return nil
			}
		case '<':
			angle++
			s.pos++
		case '>':
			// `->` is the return type arrow, not a generic close.
			if angle > 0 && (s.pos == 0 || s.src[s.pos-1] != '-') {
				angle--
			}
			s.pos++
		case '(':
			if err := s.consumeBalanced('(', ')'); err != nil {
				return err
			}
		case '[':
			if err := s.consumeBalanced('[', ']'); err != nil {
				return err
			}
		case '{':
			if err := s.consumeBalanced('{', '}'); err != nil {
				return err
			}
			if angle == 0 && mode != termSemi {
				return nil
			}
		case ')', ']', '}':
			return &ParseError{Offset: s.pos, Msg: "unbalanced delimiter"}
		default:
			s.next()
		}
	}
	return &ParseError{Offset: s.pos, Msg: "unterminated item"}
}

// consumeBalanced consumes a balanced delimiter pair starting at the
// current position, literal- and comment-aware.
func (s *scanner) consumeBalanced(open, close byte) error {
	if s.peek() != open {
		return &ParseError{Offset: s.pos, Msg: fmt.Sprintf("expected %q", string(open))}
	}
	depth := 0
	for !s.eof() {
		switch s.peek() {
		case open:
			depth++
			s.pos++
		case close:
			depth--
			s.pos++
			if depth == 0 {
				return nil
			}
		default:
			s.next()
		}
	}
	return &ParseError{Offset: s.pos, Msg: fmt.Sprintf("unterminated %q", string(open))}
}

// peekIdent returns the next identifier without consuming it.
func (s *scanner) peekIdent() string {
	save := s.pos
	s.skipWhitespace()
	word := s.ident()
	s.pos = save
	return word
}

// implSelfType scans an impl head up to (not including) its opening brace
// and returns the last path segment of the self type. Segments inside
// generic argument lists and anything after a top-level `where` clause are
// ignored. A brace inside an argument list is a const-generic expression
// and belongs to the header, not the body.
func (s *scanner) implSelfType() (string, error) {
	name := ""
	angle := 0
	inWhere := false
	for !s.eof() {
		s.skipWhitespace()
		c := s.peek()
		switch {
		case c == '{':
			if angle > 0 {
				if err := s.consumeBalanced('{', '}'); err != nil {
					return "", err
				}
				continue
			}
			return name, nil
		case c == '<':
			angle++
			s.pos++
		case c == '>':
			// `->` is the return type arrow, not a generic close.
			if angle > 0 && (s.pos == 0 || s.src[s.pos-1] != '-') {
				angle--
			}
			s.pos++
		case c == '(':
			if err := s.consumeBalanced('(', ')'); err != nil {
				return "", err
			}
		case c == '[':
			if err := s.consumeBalanced('[', ']'); err != nil {
				return "", err
			}
		case isIdentStart(c):
			word := s.ident()
			if word == "" {
				s.pos++
				continue
			}
			if angle != 0 || inWhere {
				continue
			}
			switch word {
			case "where":
				inWhere = true
			case "for", "dyn", "mut", "as", "impl":
				// not part of the self type name
			default:
				name = word
			}
		default:
			s.next()
		}
	}
	return "", &ParseError{Offset: s.pos, Msg: "unterminated impl block header"}
}
