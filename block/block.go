// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package block implements the block-level state machine: paragraph/heading/preformatted/list/table/definition-list
// structure, heading numbering, and the end-of-document flush.
package block

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/expr"
	"github.com/aleutian-labs/nme/format"
	"github.com/aleutian-labs/nme/option"
	"github.com/aleutian-labs/nme/style"
	"github.com/aleutian-labs/nme/template"
	"github.com/aleutian-labs/nme/token"
)

// Machine holds the block-level parser state that sits above the
// tokenizer's own State: the current block mode, and heading numbering.
// List/table nesting and style-span state live directly on arena.Context
// (ListStack/ListDepth, StyleStack/StyleDepth), since both the tokenizer
// and this package need to observe them.
type Machine struct {
	F    *format.Descriptor
	Opts option.Flags

	State token.BlockState

	HeadingLevel int
	HeadingNum   [maxNumberedHeadingLevels]int
	HeadingFlags uint32
}

// NewMachine returns a Machine ready to process a document from its first
// byte, addressed between paragraphs.
func NewMachine(f *format.Descriptor, opts option.Flags) *Machine {
	return &Machine{F: f, Opts: opts, State: token.BetweenParagraphs}
}

// TokenizerState reports the subset of m's state the tokenizer needs to
// pick the next token's meaning.
func (m *Machine) TokenizerState(c *arena.Context, atLineStart, precededBySpace bool) token.State {
	return token.State{
		Block:           m.State,
		Verbatim:        c.StyleDepth > 0 && c.StyleStack[c.StyleDepth-1] == arena.StyleVerbatim,
		AtLineStart:     atLineStart,
		ListStack:       listStackArray(c),
		ListDepth:       c.ListDepth,
		PrecededBySpace: precededBySpace,
		LinkOpen:        styleOpen(c, arena.StyleLink),
		ImageOpen:       styleOpen(c, arena.StyleImage),
		MaxHeadingLevel: m.F.MaxHeadingLevel,
		NoH1:            m.Opts.Has(option.NoH1),
	}
}

func styleOpen(c *arena.Context, s arena.Style) bool {
	for i := 0; i < c.StyleDepth; i++ {
		if c.StyleStack[i] == s {
			return true
		}
	}
	return false
}

func listStackArray(c *arena.Context) [arena.MaxListDepth]int {
	var a [arena.MaxListDepth]int
	copy(a[:], c.ListStack[:])
	return a
}

func (m *Machine) vars(c *arena.Context) expr.Vars {
	return expr.Vars{
		Level:    c.Level,
		Item:     c.Item,
		FontSize: c.DefaultFontSize,
		SrcOff:   c.SourceOffset(),
		DstOff:   c.DestLen(),
		XRef:     boolToInt(m.Opts.Has(option.XRef)),
		Resolve:  m.F.ResolveVariable,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (m *Machine) emit(c *arena.Context, s string) error {
	if s == "" {
		return nil
	}
	return template.Emit(c, m.F, m.vars(c), s)
}

func (m *Machine) divHook(c *arena.Context, level, item int, marker string, enter bool) error {
	if m.F.DivHook == nil {
		return nil
	}
	return m.F.DivHook(c, level, item, marker, enter)
}

func (m *Machine) parHook(c *arena.Context, marker string, enter bool) error {
	if m.F.ParHook == nil {
		return nil
	}
	return m.F.ParHook(c, marker, enter)
}

func (m *Machine) charHook(c *arena.Context, r rune) error {
	if m.F.CharHook == nil {
		return nil
	}
	return m.F.CharHook(c, r)
}

// Begin emits the document preamble, unless suppressed.
func (m *Machine) Begin(c *arena.Context) error {
	if m.Opts.Has(option.NoPreamble) {
		return nil
	}
	return m.emit(c, m.F.Preamble)
}

// Finish flushes whatever block construct is still open at end of input
// and emits the document postamble, unless suppressed.
func (m *Machine) Finish(c *arena.Context) error {
	switch m.State {
	case token.InParagraph, token.AfterEOLInParagraph:
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		if err := m.endPar(c, true); err != nil {
			return err
		}
	case token.InPreformatted:
		// A block ending right after an EOL (AfterEOLInPreformatted)
		// needs no further fragments.
		if err := m.emit(c, m.F.EndPre); err != nil {
			return err
		}
		if err := m.parHook(c, "{{{", false); err != nil {
			return err
		}
	case token.InHeading:
		c.Level = m.HeadingLevel
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		if err := m.emit(c, m.F.EndHeading); err != nil {
			return err
		}
		if err := m.parHook(c, "=", false); err != nil {
			return err
		}
		c.Level = 0
	}
	if m.Opts.Has(option.NoPreamble) {
		return nil
	}
	return m.emit(c, m.F.Postamble)
}

// writeChar appends one Char token's decoded rune to the destination,
// running the char hook and the format's paragraph-text encoder first
func (m *Machine) writeChar(c *arena.Context, tok token.Token) error {
	r, _ := utf8.DecodeRune(tok.Bytes)
	if err := m.charHook(c, r); err != nil {
		return err
	}
	if m.F.EncodeChar != nil {
		return template.Raw(c, m.F, m.F.EncodeChar(c, nil, r))
	}
	return template.Raw(c, m.F, tok.Bytes)
}

// writePreBytes appends literal preformatted-block text without wordwrap
func (m *Machine) writePreBytes(c *arena.Context, data []byte) error {
	if err := c.AppendDst(data); err != nil {
		return err
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		c.Column += runewidth.RuneWidth(r)
		i += size
	}
	return nil
}

func (m *Machine) writePreChar(c *arena.Context, tok token.Token) error {
	r, _ := utf8.DecodeRune(tok.Bytes)
	if m.F.EncodePreChar != nil {
		return m.writePreBytes(c, m.F.EncodePreChar(c, nil, r))
	}
	return m.writePreBytes(c, tok.Bytes)
}

// writePreTab expands a tab to spaces up to the next multiple of 4 columns
func (m *Machine) writePreTab(c *arena.Context) error {
	const tabWidth = 4
	for {
		space := []byte{' '}
		if m.F.EncodePreChar != nil {
			space = m.F.EncodePreChar(c, nil, ' ')
		}
		if err := m.writePreBytes(c, space); err != nil {
			return err
		}
		if c.Column%tabWidth == 0 {
			return nil
		}
	}
}

// skipBlanks advances c's read cursor past any run of spaces/tabs at the
// current position.
func skipBlanks(c *arena.Context) {
	src := c.Src()
	n := 0
	for n < len(src) && (src[n] == ' ' || src[n] == '\t') {
		n++
	}
	c.Advance(n)
}

func isEolByte(b byte) bool { return b == '\r' || b == '\n' }

// spaceToken handles a Space/Tab token outside preformatted text: runs of
// blanks collapse to a single OneSpace fragment, and a run that reaches
// end of line produces nothing.
func (m *Machine) spaceToken(c *arena.Context) error {
	skipBlanks(c)
	src := c.Src()
	if len(src) > 0 && !isEolByte(src[0]) {
		return m.emit(c, m.F.OneSpace)
	}
	return nil
}
