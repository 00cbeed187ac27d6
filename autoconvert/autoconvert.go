// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package autoconvert provides the two source-to-link autoconverts
// carried alongside the engine: raw URLs and CamelCase words are rewritten to
// [[...]] bracket links, which the engine then re-parses through the
// buffer-swap protocol.
package autoconvert

import (
	"bytes"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/format"
)

func isBlank(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }

func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// leadIn locates the first byte of the candidate word: an autoconvert
// fires only at the very beginning of the document or right after a
// blank, so a URL or CamelCase word glued to other text is left alone.
func leadIn(c *arena.Context, src []byte) (int, bool) {
	if c.SourceOffset() == 0 {
		if len(src) > 0 && isBlank(src[0]) {
			return 1, true
		}
		return 0, true
	}
	if len(src) == 0 || !isBlank(src[0]) {
		return 0, false
	}
	return 1, true
}

// emitLink writes the blank lead-in (if any) followed by the word
// wrapped in link brackets, for the engine to re-parse as markup.
func emitLink(c *arena.Context, src []byte, i1 int, word []byte) bool {
	if err := c.AppendDst(src[:i1]); err != nil {
		return false
	}
	if err := c.AppendDst([]byte("[[")); err != nil {
		return false
	}
	if err := c.AppendDst(word); err != nil {
		return false
	}
	if err := c.AppendDst([]byte("]]")); err != nil {
		return false
	}
	return true
}

// CamelCase recognizes a run of letters containing a lowercase letter
// immediately followed by an uppercase one and links the whole run.
func CamelCase(c *arena.Context, src []byte) (int, bool) {
	i1, ok := leadIn(c, src)
	if !ok || i1 >= len(src) || !isAlpha(src[i1]) {
		return 0, false
	}
	for j := 1; i1+j < len(src) && isAlpha(src[i1+j]); j++ {
		if src[i1+j] <= 'Z' && src[i1+j-1] >= 'a' {
			for ; i1+j < len(src) && isAlpha(src[i1+j]); j++ {
			}
			if !emitLink(c, src, i1, src[i1:i1+j]) {
				return 0, false
			}
			return i1 + j, true
		}
	}
	return 0, false
}

var urlPrefixes = [][]byte{
	[]byte("http://"),
	[]byte("https://"),
	[]byte("ftp://"),
	[]byte("mailto:"),
}

const urlTrailingPunctuation = ",.?!:;'"

// URL recognizes a bare http/https/ftp/mailto URL and links it, dropping
// one trailing punctuation character so a URL ending a sentence doesn't
// swallow the period.
func URL(c *arena.Context, src []byte) (int, bool) {
	i1, ok := leadIn(c, src)
	if !ok || i1 >= len(src) {
		return 0, false
	}
	for _, prefix := range urlPrefixes {
		if !bytes.HasPrefix(src[i1:], prefix) {
			continue
		}
		p := len(prefix)
		for i1+p < len(src) && src[i1+p] != '"' && src[i1+p] > ' ' {
			p++
		}
		if p == len(prefix) {
			continue
		}
		if bytes.IndexByte([]byte(urlTrailingPunctuation), src[i1+p-1]) >= 0 {
			p--
		}
		if !emitLink(c, src, i1, src[i1:i1+p]) {
			return 0, false
		}
		return i1 + p, true
	}
	return 0, false
}

// Entries returns both autoconverts as format table rows, marked for
// re-parsing so the emitted [[...]] is tokenized as a link.
func Entries() []format.AutoconvertEntry {
	return []format.AutoconvertEntry{
		{Name: "url", Func: URL, ReparseOutput: true},
		{Name: "camelcase", Func: CamelCase, ReparseOutput: true},
	}
}
