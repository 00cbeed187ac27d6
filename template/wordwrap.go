// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package template

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/format"
)

// maybeWrap consults the format's wordwrap callback once the column has
// reached f.WordwrapColumn, walking backward over the current output line
// to the last byte the callback permits breaking at. With no callback
// configured, the last space on the line is used and replaced.
func maybeWrap(c *arena.Context, f *format.Descriptor) error {
	if f.WordwrapColumn <= 0 || c.Column < f.WordwrapColumn {
		return nil
	}

	dst := c.Dst()
	lineStart := lastLineStart(dst, c.EOL)

	breakAt := -1
	perm := format.WordwrapNo
	for i := len(dst) - 1; i >= lineStart; i-- {
		if f.Wordwrap != nil {
			perm = f.Wordwrap(dst, i)
		} else if dst[i] == ' ' || dst[i] == '\t' {
			perm = format.WordwrapReplaceChar
		}
		if perm != format.WordwrapNo {
			breakAt = i
			break
		}
	}
	if breakAt < 0 {
		// No permitted break point on the current line; allow the overflow.
		return nil
	}

	removeLen := 0
	if perm == format.WordwrapReplaceChar {
		removeLen = 1
	}
	insert := []byte(c.EOL + strings.Repeat(" ", c.CurrentIndent))
	if err := c.SpliceDst(breakAt, removeLen, insert); err != nil {
		return err
	}
	c.RecountUCS16()
	recomputeColumn(c)
	return nil
}

// lastLineStart returns the byte offset within dst just past the most
// recent occurrence of eol, or 0 if dst contains no eol yet.
func lastLineStart(dst []byte, eol string) int {
	if eol == "" {
		return 0
	}
	idx := strings.LastIndex(string(dst), eol)
	if idx < 0 {
		return 0
	}
	return idx + len(eol)
}

// recomputeColumn recounts c.Column as the display width of the current
// line after a splice, since an in-place insert/replace can't be patched
// incrementally without risking drift.
func recomputeColumn(c *arena.Context) {
	dst := c.Dst()
	lineStart := lastLineStart(dst, c.EOL)
	line := dst[lineStart:]
	col := 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRune(line[i:])
		col += runewidth.RuneWidth(r)
		i += size
	}
	c.Column = col
}
