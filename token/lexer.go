// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package token

import (
	"unicode/utf8"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/option"
)

// Next reads exactly one token from c's current source position, given the
// block-level state st. It does not itself advance c's read cursor; the
// caller (the block state machine) calls c.Advance(tok.Len) once it has
// decided how to react to the token, which is what makes this a
// single-token-lookahead reader rather than a consuming one.
func Next(c *arena.Context, opts option.Flags, st State) Token {
	src := c.Src()
	if len(src) == 0 {
		return Token{Kind: EOF}
	}

	if st.Verbatim {
		return nextVerbatim(src)
	}

	b := src[0]

	if b == '\n' {
		return Token{Kind: EOL, Len: 1}
	}

	// Preformatted text is literal: only the line-start closing fence is
	// special, never headings, lists, styles, links, or plugins
	if st.Block == InPreformatted || st.Block == AfterEOLInPreformatted {
		if st.Block == AfterEOLInPreformatted {
			if tok, ok := tryPreformattedClose(src); ok {
				return tok
			}
		}
		if b == ' ' {
			return Token{Kind: Space, Len: 1, Bytes: []byte{' '}}
		}
		if b == '\t' {
			return Token{Kind: Tab, Len: 1, Bytes: []byte{'\t'}}
		}
		r, size := utf8.DecodeRune(src)
		_ = r
		return Token{Kind: Char, Len: size, Bytes: clone(src[:size])}
	}

	if !opts.Has(option.NoEscape) && b == '~' && len(src) > 1 && !isBlank(src[1]) {
		_, size := utf8.DecodeRune(src[1:])
		return Token{Kind: Char, Len: 1 + size, Bytes: clone(src[1 : 1+size]), Escaped: true}
	}

	// Between paragraphs every position is effectively a line start: any
	// blanks in front were consumed as their own tokens without opening
	// a paragraph.
	if st.AtLineStart || st.Block == BetweenParagraphs {
		if tok, ok := tryHeading(src, st); ok {
			return tok
		}
		if !opts.Has(option.NoHorizontalRule) {
			if tok, ok := tryHorizontalRule(src); ok {
				return tok
			}
		}
		if tok, ok := tryListItem(src, st, opts); ok {
			return tok
		}
		if tok, ok := tryPreformattedFence(src); ok {
			return tok
		}
	}

	if st.Block == InHeading {
		if tok, ok := tryHeadingClose(src, st); ok {
			return tok
		}
	}

	if b == '\\' && len(src) >= 2 && src[1] == '\\' {
		return Token{Kind: LineBreak, Len: 2}
	}

	if !opts.Has(option.NoTable) {
		if tok, ok := tryTableCell(src); ok {
			return tok
		}
	}

	if st.Block == InParagraph || st.Block == AfterEOLInParagraph {
		if b == ':' && st.PrecededBySpace {
			if kind, ok := st.innermostListKind(); ok && kind == arena.ListDefinitionTitle {
				return Token{Kind: DefinitionDefinition, Len: 1}
			}
		}
	}

	if !opts.Has(option.NoPlugin) {
		if len(src) >= 3 && src[0] == '<' && src[1] == '<' && src[2] == '<' {
			if tok, ok := tryBracket(src, "<<<", ">>>", true); ok {
				return tok
			}
		}
		if len(src) >= 2 && src[0] == '<' && src[1] == '<' {
			if tok, ok := tryBracket(src, "<<", ">>", false); ok {
				return tok
			}
		}
	}

	if !opts.Has(option.NoLink) {
		if len(src) >= 2 && src[0] == '[' && src[1] == '[' {
			return Token{Kind: LinkBegin, Len: 2}
		}
		// ']]' is a closing marker only while a link is open; otherwise
		// the brackets are plain text.
		if st.LinkOpen && len(src) >= 2 && src[0] == ']' && src[1] == ']' {
			return Token{Kind: LinkEnd, Len: 2}
		}
	}

	if !opts.Has(option.NoImage) {
		// '}}' closes an open image even when a third '}' follows; the
		// extra brace is the next (plain) token.
		if st.ImageOpen && len(src) >= 2 && src[0] == '}' && src[1] == '}' {
			return Token{Kind: ImageEnd, Len: 2}
		}
		if !st.ImageOpen && len(src) >= 2 && src[0] == '{' && src[1] == '{' &&
			!(len(src) >= 3 && src[2] == '{') {
			return Token{Kind: ImageBegin, Len: 2}
		}
	}

	// '{{{' mid-paragraph opens an inline verbatim span; the matching
	// '}}}' is recognized by nextVerbatim once Verbatim is active, so a
	// stray '}}}' here stays plain text.
	if tok, ok := tryVerbatimOpenOrFence(src); ok {
		return tok
	}

	if tok, ok := tryInlineStyle(c, src, opts); ok {
		return tok
	}

	if b == ' ' {
		return Token{Kind: Space, Len: 1, Bytes: []byte{' '}}
	}
	if b == '\t' {
		return Token{Kind: Tab, Len: 1, Bytes: []byte{'\t'}}
	}

	r, size := utf8.DecodeRune(src)
	_ = r
	return Token{Kind: Char, Len: size, Bytes: clone(src[:size])}
}

func nextVerbatim(src []byte) Token {
	if len(src) >= 4 && src[0] == '}' && src[1] == '}' && src[2] == '}' && src[3] == '}' {
		// A } immediately followed by }}} is plain text, letting a
		// preformatted/verbatim region contain }}} via }}}}.
		return Token{Kind: Char, Len: 1, Bytes: []byte{'}'}}
	}
	if len(src) >= 3 && src[0] == '}' && src[1] == '}' && src[2] == '}' {
		return Token{Kind: InlineStyle, Style: arena.StyleVerbatim, Len: 3}
	}
	r, size := utf8.DecodeRune(src)
	_ = r
	return Token{Kind: Char, Len: size, Bytes: clone(src[:size])}
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' || b == '\n' }

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
