// SPDX-License-Identifier: MPL-2.0

package rustsyn

import "strings"

// scanner walks raw source text while staying out of comments, string
// literals, char literals, and raw strings. All parsing decisions in this
// package are made on top of it.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

// eof reports whether the scanner has consumed all input.
func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

// peek returns the current byte, or 0 at end of input.
func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

// skipWhitespace advances past whitespace and comments.
func (s *scanner) skipWhitespace() {
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.pos++
		case c == '/' && s.peekAt(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peekAt(1) == '*':
			s.skipBlockComment()
		default:
			return
		}
	}
}

func (s *scanner) skipLineComment() {
	for !s.eof() && s.src[s.pos] != '\n' {
		s.pos++
	}
}

// skipBlockComment consumes a /* */ comment. Rust block comments nest.
func (s *scanner) skipBlockComment() {
	depth := 0
	for !s.eof() {
		if s.src[s.pos] == '/' && s.peekAt(1) == '*' {
			depth++
			s.pos += 2
			continue
		}
		if s.src[s.pos] == '*' && s.peekAt(1) == '/' {
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		s.pos++
	}
}

// next consumes one lexical element: a literal is consumed whole, anything
// else advances a single byte. Returns false once input is exhausted.
func (s *scanner) next() bool {
	if s.eof() {
		return false
	}
	c := s.src[s.pos]
	switch {
	case c == '/' && s.peekAt(1) == '/':
		s.skipLineComment()
	case c == '/' && s.peekAt(1) == '*':
		s.skipBlockComment()
	case c == '"':
		s.skipString()
	case c == '\'':
		s.skipCharOrLifetime()
	case c == 'r' && (s.peekAt(1) == '"' || s.peekAt(1) == '#'):
		if !s.skipRawString(1) {
			s.pos++
		}
	case c == 'b' && s.peekAt(1) == '"':
		s.pos++
		s.skipString()
	case c == 'b' && s.peekAt(1) == '\'':
		s.pos++
		s.skipCharOrLifetime()
	case c == 'b' && s.peekAt(1) == 'r' && (s.peekAt(2) == '"' || s.peekAt(2) == '#'):
		if !s.skipRawString(2) {
			s.pos++
		}
	default:
		s.pos++
	}
	return true
}

// skipString consumes a double-quoted string literal with escapes.
func (s *scanner) skipString() {
	s.pos++ // opening quote
	for !s.eof() {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			s.pos++
			return
		default:
			s.pos++
		}
	}
}

// skipCharOrLifetime distinguishes 'a' (char literal) from 'a (lifetime).
// A lifetime is an apostrophe followed by an identifier with no closing
// quote; everything else after an apostrophe is a char literal.
func (s *scanner) skipCharOrLifetime() {
	start := s.pos
	s.pos++ // apostrophe
	if s.eof() {
		return
	}
	c := s.src[s.pos]
	if isIdentStart(c) && s.peekAt(1) != '\'' {
		// Lifetime: consume the identifier and stop.
		for !s.eof() && isIdentPart(s.src[s.pos]) {
			s.pos++
		}
		return
	}
	// Char literal, possibly escaped.
	if c == '\\' {
		s.pos += 2
	} else {
		s.pos++
	}
	if !s.eof() && s.src[s.pos] == '\'' {
		s.pos++
		return
	}
	// Unterminated or not actually a literal; treat the apostrophe alone.
	s.pos = start + 1
}

// skipRawString consumes r"..."- and r#"..."#-style literals. prefixLen is
// the length of the literal prefix before any hashes (1 for r, 2 for br).
// Returns false when the input is not actually a raw string.
func (s *scanner) skipRawString(prefixLen int) bool {
	start := s.pos
	s.pos += prefixLen
	hashes := 0
	for !s.eof() && s.src[s.pos] == '#' {
		hashes++
		s.pos++
	}
	if s.eof() || s.src[s.pos] != '"' {
		// r#ident raw identifier, not a raw string.
		s.pos = start
		return false
	}
	s.pos++
	closer := `"` + strings.Repeat("#", hashes)
	idx := strings.Index(s.src[s.pos:], closer)
	if idx < 0 {
		s.pos = len(s.src)
		return true
	}
	s.pos += idx + len(closer)
	return true
}

// ident consumes and returns an identifier at the current position,
// stripping a raw-identifier prefix. Returns "" when there is none.
func (s *scanner) ident() string {
	if strings.HasPrefix(s.src[s.pos:], "r#") && isIdentStart(s.peekAt(2)) {
		s.pos += 2
	}
	if s.eof() || !isIdentStart(s.src[s.pos]) {
		return ""
	}
	start := s.pos
	for !s.eof() && isIdentPart(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
