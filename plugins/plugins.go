// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package plugins bundles the small example plugins shipped with the
// engine: raw text reversal, ROT-13, and uppercasing. Each is registered
// with format.PluginReparseOutput so its emitted text is re-tokenized as
// NME markup by the buffer-swap protocol.
package plugins

import (
	"strings"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/format"
)

// appendByte writes a single output byte to c, translating a literal '\n'
// to the configured end-of-line plus the current indent the way the
// template emitter does for fragment text. Plugin
// callbacks receive no *format.Descriptor, so they cannot call the
// template package directly; operating one byte at a time also guarantees
// a plugin's own output can never be mistaken for a multi-byte
// C{...}/CC..CC control sequence.
func appendByte(c *arena.Context, b byte) error {
	if b == '\n' {
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
	if err := c.AppendDstByte(b); err != nil {
		return err
	}
	c.Column++
	return nil
}

// Reverse emits body reversed byte-for-byte.
func Reverse(c *arena.Context, name, body []byte) error {
	for i := len(body) - 1; i >= 0; i-- {
		if err := appendByte(c, body[i]); err != nil {
			return err
		}
	}
	return nil
}

// Rot13 emits body with its ASCII letters rotated by 13 places.
func Rot13(c *arena.Context, name, body []byte) error {
	for _, b := range body {
		if err := appendByte(c, rot13Byte(b)); err != nil {
			return err
		}
	}
	return nil
}

func rot13Byte(b byte) byte {
	lower := b | 32
	switch {
	case lower >= 'a' && lower <= 'm':
		return b + 13
	case lower >= 'n' && lower <= 'z':
		return b - 13
	default:
		return b
	}
}

// Uppercase emits body with its ASCII letters upper-cased.
func Uppercase(c *arena.Context, name, body []byte) error {
	for _, b := range body {
		out := b
		if b >= 'a' && b <= 'z' {
			out = b - 'a' + 'A'
		}
		if err := appendByte(c, out); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns the three bundled plugins' table rows, each marked for
// reparse. None sets PluginTripleAngleBrackets, so they match only the
// <<name>> form, not <<<name>>>.
func Entries() []format.PluginEntry {
	return []format.PluginEntry{
		{Name: "reverse", Options: format.PluginReparseOutput, Func: Reverse},
		{Name: "rot13", Options: format.PluginReparseOutput, Func: Rot13},
		{Name: "uppercase", Options: format.PluginReparseOutput, Func: Uppercase},
	}
}
