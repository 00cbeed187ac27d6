// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package template implements the output-fragment templating mini-language
//: \n translation to the configured
// end-of-line and indent, C{expr} decimal substitution, CC{expr}body CC
// replication, and the CL list-nesting signature, plus soft wordwrap.
package template

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/expr"
	"github.com/aleutian-labs/nme/format"
)

const maxReplicate = 100

// Emit appends the fragment string s to c's destination buffer, resolving
// \n, C{expr}, CC{expr}body CC, and CL. v
// supplies the expression evaluator's variable bindings; v.SrcOff and
// v.DstOff are refreshed from c before each embedded expression so o and p
// always reflect the position at the point of substitution.
func Emit(c *arena.Context, f *format.Descriptor, v expr.Vars, s string) error {
	i := 0
	for i < len(s) {
		b := s[i]
		switch {
		case b == '\n':
			if err := writeEOL(c, f); err != nil {
				return err
			}
			i++
		case b == f.CtrlChar && i+1 < len(s) && s[i+1] == f.CtrlChar:
			n, err := emitReplicate(c, f, v, s, i)
			if err != nil {
				return err
			}
			i = n
		case b == f.CtrlChar && i+1 < len(s) && s[i+1] == 'L':
			if err := emitListSignature(c); err != nil {
				return err
			}
			i += 2
		case b == f.CtrlChar && i+1 < len(s) && s[i+1] == '{':
			n, err := emitExpr(c, f, v, s, i)
			if err != nil {
				return err
			}
			i = n
		default:
			// Plain run up to the next special byte.
			j := i + 1
			for j < len(s) && s[j] != '\n' && s[j] != f.CtrlChar {
				j++
			}
			if err := writeText(c, f, []byte(s[i:j])); err != nil {
				return err
			}
			i = j
		}
	}
	return nil
}

// Raw appends already-encoded character data (not fragment markup) to
// c's destination, tracking display column and offering the wordwrap
// callback a break point, the same way a fragment's literal text does
func Raw(c *arena.Context, f *format.Descriptor, data []byte) error {
	return writeText(c, f, data)
}

func writeEOL(c *arena.Context, f *format.Descriptor) error {
	if err := c.AppendDst([]byte(c.EOL)); err != nil {
		return err
	}
	if c.CurrentIndent > 0 {
		if err := c.AppendDst([]byte(strings.Repeat(" ", c.CurrentIndent))); err != nil {
			return err
		}
	}
	c.Column = c.CurrentIndent
	return nil
}

// writeText appends literal fragment text (already in the target format,
// never user document content) and advances the column by display width,
// then offers the wordwrap callback a chance to break the line.
func writeText(c *arena.Context, f *format.Descriptor, data []byte) error {
	if err := c.AppendDst(data); err != nil {
		return err
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		c.Column += runewidth.RuneWidth(r)
		i += size
	}
	return maybeWrap(c, f)
}

func findClosingBrace(s string, openIdx int) (int, bool) {
	depth := 0
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// emitExpr handles C{expr} starting at position i (s[i]==ctrlChar,
// s[i+1]=='{'). Returns the index just past the consumed sequence.
func emitExpr(c *arena.Context, f *format.Descriptor, v expr.Vars, s string, i int) (int, error) {
	open := i + 1
	closeIdx, ok := findClosingBrace(s, open)
	if !ok {
		// Malformed: no matching brace. Emit the control char literally
		// and continue, matching the engine's graceful degradation.
		return i + 1, writeText(c, f, []byte{f.CtrlChar})
	}
	v.SrcOff = c.SourceOffset()
	v.DstOff = c.DestLen()
	val := expr.Eval([]byte(s[open+1:closeIdx]), v)
	if err := writeText(c, f, []byte(itoa(val))); err != nil {
		return 0, err
	}
	return closeIdx + 1, nil
}

// emitReplicate handles CC{expr}body CC starting at i (s[i]==s[i+1]==
// ctrlChar). The terminator is the next occurrence of two consecutive
// ctrlChar bytes; replicated bodies must not themselves contain CC..CC
//, so the first occurrence always terminates correctly.
func emitReplicate(c *arena.Context, f *format.Descriptor, v expr.Vars, s string, i int) (int, error) {
	if i+2 >= len(s) || s[i+2] != '{' {
		return i + 1, writeText(c, f, []byte{f.CtrlChar})
	}
	closeIdx, ok := findClosingBrace(s, i+2)
	if !ok {
		return i + 1, writeText(c, f, []byte{f.CtrlChar})
	}
	v.SrcOff = c.SourceOffset()
	v.DstOff = c.DestLen()
	n := expr.Eval([]byte(s[i+3:closeIdx]), v)

	bodyStart := closeIdx + 1
	term := strings.Index(s[bodyStart:], string([]byte{f.CtrlChar, f.CtrlChar}))
	if term < 0 {
		return i + 1, writeText(c, f, []byte{f.CtrlChar})
	}
	body := s[bodyStart : bodyStart+term]
	end := bodyStart + term + 2

	if n <= 0 {
		return end, nil
	}
	if n > maxReplicate {
		n = maxReplicate
	}
	for k := 0; k < n; k++ {
		if err := Emit(c, f, v, body); err != nil {
			return 0, err
		}
	}
	return end, nil
}

// emitListSignature writes a short string using the source's own list
// markers (*, ;, :, #) describing the current list-nesting stack (the CL escape).
func emitListSignature(c *arena.Context) error {
	buf := make([]byte, 0, c.ListDepth)
	for i := 0; i < c.ListDepth; i++ {
		switch {
		case c.ListStack[i] > 0:
			buf = append(buf, '#')
		case arena.ListKind(c.ListStack[i]) == arena.ListUnnumbered:
			buf = append(buf, '*')
		case arena.ListKind(c.ListStack[i]) == arena.ListDefinitionTitle:
			buf = append(buf, ';')
		case arena.ListKind(c.ListStack[i]) == arena.ListDefinitionDefinition,
			arena.ListKind(c.ListStack[i]) == arena.ListIndented:
			buf = append(buf, ':')
		default:
			buf = append(buf, '*')
		}
	}
	return c.AppendDst(buf)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		digits[i] = '-'
	}
	return string(digits[i:])
}
