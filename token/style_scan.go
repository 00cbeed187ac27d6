// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package token

import (
	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/option"
)

// tryInlineStyle recognizes doubled-punctuation inline style markers:
// ** (bold), // (italic), __ (underline), ^^ (superscript), ,, (subscript),
// ## (monospace). Each is gated by its No* option.
func tryInlineStyle(c *arena.Context, src []byte, opts option.Flags) (Token, bool) {
	if len(src) < 2 || src[0] != src[1] {
		return Token{}, false
	}
	var style arena.Style
	switch src[0] {
	case '*':
		if opts.Has(option.NoBold) {
			return Token{}, false
		}
		style = arena.StyleBold
	case '/':
		if opts.Has(option.NoItalic) {
			return Token{}, false
		}
		if looksLikeURLSlashes(c) {
			return Token{}, false
		}
		style = arena.StyleItalic
	case '_':
		if opts.Has(option.NoUnderline) {
			return Token{}, false
		}
		style = arena.StyleUnderline
	case '^':
		if opts.Has(option.NoSubSuperscript) {
			return Token{}, false
		}
		style = arena.StyleSuperscript
	case ',':
		if opts.Has(option.NoSubSuperscript) {
			return Token{}, false
		}
		style = arena.StyleSubscript
	case '#':
		if opts.Has(option.NoMonospace) {
			return Token{}, false
		}
		style = arena.StyleMonospace
	default:
		return Token{}, false
	}
	return Token{Kind: InlineStyle, Style: style, Len: 2}, true
}

// looksLikeURLSlashes implements the scheme:// guard: a "//" immediately preceded by "<scheme>:" where scheme
// is a run of letters/digits/+/-/. is treated as part of a URL, not an
// italic marker, so italic spans aren't spuriously closed mid-link.
func looksLikeURLSlashes(c *arena.Context) bool {
	back := c.SrcLookback(64)
	if len(back) == 0 || back[len(back)-1] != ':' {
		return false
	}
	i := len(back) - 2
	seen := false
	for i >= 0 && isSchemeByte(back[i]) {
		i--
		seen = true
	}
	return seen
}

func isSchemeByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b == '+' || b == '-' || b == '.'
}
