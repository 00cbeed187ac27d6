// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package block

import (
	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/option"
	"github.com/aleutian-labs/nme/plugin"
	"github.com/aleutian-labs/nme/style"
	"github.com/aleutian-labs/nme/token"
)

// Step advances the machine by exactly one token: it consumes the token's
// source bytes and reacts to it according to the current block state
// Callers drive a full translation by repeatedly calling
// token.Next followed by Step until token.Next reports EOF.
func (m *Machine) Step(c *arena.Context, tok token.Token) error {
	c.Advance(tok.Len)
	switch m.State {
	case token.BetweenParagraphs:
		return m.stepBetweenParagraphs(c, tok)
	case token.InParagraph:
		return m.stepInParagraph(c, tok)
	case token.AfterEOLInParagraph:
		return m.stepAfterEOLInParagraph(c, tok)
	case token.InPreformatted:
		return m.stepPre(c, tok)
	case token.AfterEOLInPreformatted:
		return m.stepPreAfterEol(c, tok)
	case token.InHeading:
		return m.stepInHeading(c, tok)
	}
	return nil
}

func innermostTableKind(c *arena.Context) (arena.ListKind, bool) {
	if c.ListDepth == 0 {
		return 0, false
	}
	v := c.ListStack[c.ListDepth-1]
	if !isTableKind(v) {
		return 0, false
	}
	return arena.ListKind(v), true
}

// writeLiteralRunes writes s to the destination one rune at a time through
// the same char hook and encoder a Char token would use, for markup bytes
// the tokenizer consumed speculatively (a table separator reached outside
// any open table) that must still render as plain text.
func (m *Machine) writeLiteralRunes(c *arena.Context, s string) error {
	for _, r := range s {
		if err := m.writeChar(c, token.Token{Bytes: []byte(string(r))}); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) openParagraph(c *arena.Context) error {
	if err := m.parHook(c, "p", true); err != nil {
		return err
	}
	if err := m.emit(c, m.F.BeginParagraph); err != nil {
		return err
	}
	m.State = token.InParagraph
	return nil
}

// openHeading closes any previously open heading-section levels deeper
// than the new one (via the div hook), bumps heading numbering, and opens
// the new heading.
func (m *Machine) openHeading(c *arena.Context, tok token.Token) error {
	prevLevel := m.HeadingLevel
	for lvl := prevLevel; lvl > tok.HeadingLevel; lvl-- {
		if m.sectionFlagSet(lvl) {
			if err := m.divHook(c, lvl, 0, "=", false); err != nil {
				return err
			}
		}
	}
	m.nextHeading(tok.HeadingLevel)
	m.HeadingLevel = tok.HeadingLevel
	c.Level = tok.HeadingLevel
	c.Item = m.headingItem(tok.HeadingLevel)
	if err := m.divHook(c, c.Level, c.Item, "=", true); err != nil {
		return err
	}
	if err := m.parHook(c, "=", true); err != nil {
		return err
	}
	if err := m.emit(c, m.F.BeginHeading); err != nil {
		return err
	}
	c.Level = 0
	m.State = token.InHeading
	skipBlanks(c)
	return nil
}

func (m *Machine) closeHeading(c *arena.Context) error {
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
	m.State = token.BetweenParagraphs
	return nil
}

// openPre begins a preformatted block at the fence just consumed: it
// emits the pre and first pre-line begin fragments, resets the indent,
// and swallows the remainder of the fence's own line including its EOL
// so the block's first content line starts fresh.
func (m *Machine) openPre(c *arena.Context) error {
	if err := m.parHook(c, "{{{", true); err != nil {
		return err
	}
	if err := m.emit(c, m.F.BeginPre); err != nil {
		return err
	}
	if err := m.emit(c, m.F.BeginPreLine); err != nil {
		return err
	}
	c.CurrentIndent = 0
	skipBlanks(c)
	src := c.Src()
	if len(src) > 0 && src[0] == '\r' {
		c.Advance(1)
		src = c.Src()
	}
	if len(src) > 0 && src[0] == '\n' {
		c.Advance(1)
	}
	m.State = token.AfterEOLInPreformatted
	return nil
}

func (m *Machine) emitHorizontalRule(c *arena.Context) error {
	if err := m.parHook(c, "----", true); err != nil {
		return err
	}
	if err := m.emit(c, m.F.HorizontalRule); err != nil {
		return err
	}
	return m.parHook(c, "----", false)
}

// stepParCommon handles the inline-content tokens common to every
// paragraph-bearing state: literal text, whitespace, line breaks, inline
// styles, links/images, and a table separator reached mid-paragraph
func (m *Machine) stepParCommon(c *arena.Context, tok token.Token) error {
	switch tok.Kind {
	case token.Char:
		return m.writeChar(c, tok)
	case token.Space, token.Tab:
		return m.spaceToken(c)
	case token.LineBreak:
		return m.emit(c, m.F.LineBreak)
	case token.InlineStyle:
		return style.Toggle(c, m.F, m.Opts, m.vars(c), tok.Style)
	case token.LinkBegin:
		return style.BeginLink(c, m.F, m.vars(c), false)
	case token.LinkEnd:
		return style.Toggle(c, m.F, m.Opts, m.vars(c), arena.StyleLink)
	case token.ImageBegin:
		return style.BeginLink(c, m.F, m.vars(c), true)
	case token.ImageEnd:
		return style.Toggle(c, m.F, m.Opts, m.vars(c), arena.StyleImage)
	case token.TableCell, token.TableHeadingCell:
		if _, ok := innermostTableKind(c); ok {
			return m.nextCellSameRow(c, tok.Kind == token.TableHeadingCell)
		}
		marker := "|"
		if tok.Kind == token.TableHeadingCell {
			marker = "|="
		}
		return m.writeLiteralRunes(c, marker)
	}
	return nil
}

// stepBetweenParagraphs dispatches a token reached with no paragraph, list,
// or heading currently open.
func (m *Machine) stepBetweenParagraphs(c *arena.Context, tok token.Token) error {
	switch tok.Kind {
	case token.EOF, token.EOL:
		return nil
	case token.Space, token.Tab:
		skipBlanks(c)
		return nil
	case token.Heading:
		return m.openHeading(c, tok)
	case token.ListItem:
		if err := m.beginListItemFresh(c, tok.Markers); err != nil {
			return err
		}
		m.State = token.InParagraph
		return nil
	case token.TableCell, token.TableHeadingCell:
		if err := m.beginTableFresh(c, tok.Kind == token.TableHeadingCell); err != nil {
			return err
		}
		m.State = token.InParagraph
		return nil
	case token.PreformattedFence:
		return m.openPre(c)
	case token.HorizontalRule:
		return m.emitHorizontalRule(c)
	case token.Plugin, token.PluginBlock, token.Placeholder, token.PlaceholderBlock:
		return m.dispatchPluginBetween(c, tok)
	case token.DefinitionDefinition, token.LinkEnd, token.ImageEnd:
		// The tokenizer never legitimately produces these between
		// paragraphs; reaching here is a parser bug, not malformed input
		return ErrInternal
	default:
		if err := m.openParagraph(c); err != nil {
			return err
		}
		return m.stepParCommon(c, tok)
	}
}

// stepInParagraph dispatches a token reached strictly mid-line inside an
// open paragraph (not immediately after an EOL).
func (m *Machine) stepInParagraph(c *arena.Context, tok token.Token) error {
	switch tok.Kind {
	case token.EOF:
		return nil
	case token.EOL:
		m.State = token.AfterEOLInParagraph
		return nil
	case token.DefinitionDefinition:
		return m.handleDD(c, false)
	case token.Plugin, token.PluginBlock, token.Placeholder, token.PlaceholderBlock:
		return m.dispatchPluginInParagraph(c, tok)
	default:
		return m.stepParCommon(c, tok)
	}
}

// stepAfterEOLInParagraph dispatches the first token of a new source line
// while still inside an open paragraph. A second bare EOL (blank line)
// fully ends the paragraph; a heading, fence, rule, list item, or table
// cell marker here ends or continues block structure before its own
// handling runs; anything else resumes the paragraph, joined to the prior
// line by a single space.
func (m *Machine) stepAfterEOLInParagraph(c *arena.Context, tok token.Token) error {
	switch tok.Kind {
	case token.EOF:
		return nil
	case token.Space, token.Tab:
		// Leading blanks on a continuation line vanish; the single
		// joining space is emitted when the line's first real token
		// arrives.
		skipBlanks(c)
		return nil
	case token.EOL:
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		if err := m.endPar(c, true); err != nil {
			return err
		}
		m.State = token.BetweenParagraphs
		return nil
	case token.Heading:
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		if err := m.endPar(c, true); err != nil {
			return err
		}
		return m.openHeading(c, tok)
	case token.PreformattedFence:
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		if err := m.endPar(c, true); err != nil {
			return err
		}
		return m.openPre(c)
	case token.HorizontalRule:
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		if err := m.endPar(c, true); err != nil {
			return err
		}
		if err := m.emitHorizontalRule(c); err != nil {
			return err
		}
		m.State = token.BetweenParagraphs
		return nil
	case token.ListItem:
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		if err := m.continueListItem(c, tok.Markers); err != nil {
			return err
		}
		m.State = token.InParagraph
		return nil
	case token.TableCell, token.TableHeadingCell:
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		heading := tok.Kind == token.TableHeadingCell
		if _, ok := innermostTableKind(c); ok {
			if err := m.endPar(c, false); err != nil {
				return err
			}
			if err := m.beginTableRow(c, heading); err != nil {
				return err
			}
		} else {
			if err := m.endPar(c, true); err != nil {
				return err
			}
			if err := m.beginTableFresh(c, heading); err != nil {
				return err
			}
		}
		m.State = token.InParagraph
		return nil
	case token.DefinitionDefinition:
		if err := m.handleDD(c, true); err != nil {
			return err
		}
		m.State = token.InParagraph
		return nil
	case token.Plugin, token.PluginBlock, token.Placeholder, token.PlaceholderBlock:
		return m.dispatchPluginAfterEOL(c, tok)
	case token.Char:
		// A paragraph normally continues across single EOLs, joined by
		// one space. NoMultilinePar makes every source line its own
		// paragraph, and a table cell never spans lines.
		if m.Opts.Has(option.NoMultilinePar) || m.inTableCell(c) {
			if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
				return err
			}
			if err := m.endPar(c, true); err != nil {
				return err
			}
			m.State = token.BetweenParagraphs
			return m.stepBetweenParagraphs(c, tok)
		}
		if err := m.emit(c, m.F.OneSpace); err != nil {
			return err
		}
		m.State = token.InParagraph
		return m.stepParCommon(c, tok)
	default:
		if err := m.emit(c, m.F.OneSpace); err != nil {
			return err
		}
		m.State = token.InParagraph
		return m.stepParCommon(c, tok)
	}
}

func (m *Machine) inTableCell(c *arena.Context) bool {
	_, ok := innermostTableKind(c)
	return ok
}

// stepInHeading dispatches a token inside an open heading line. Only the
// matching '=' run (or, failing that, a bare EOL) ends it; everything else
// is heading text.
func (m *Machine) stepInHeading(c *arena.Context, tok token.Token) error {
	switch tok.Kind {
	case token.EOF:
		return nil
	case token.Heading, token.EOL:
		return m.closeHeading(c)
	case token.Plugin, token.PluginBlock, token.Placeholder, token.PlaceholderBlock:
		return m.dispatchPluginInHeading(c, tok)
	default:
		return m.stepParCommon(c, tok)
	}
}

// stepPre handles one token's worth of preformatted-block content: every
// byte is written through literally, with tabs expanding to the next
// 4-column stop and no wordwrap.
func (m *Machine) stepPre(c *arena.Context, tok token.Token) error {
	switch tok.Kind {
	case token.Char, token.Space:
		return m.writePreChar(c, tok)
	case token.Tab:
		return m.writePreTab(c)
	case token.EOL:
		if err := m.emit(c, m.F.EndPreLine); err != nil {
			return err
		}
		m.State = token.AfterEOLInPreformatted
		return nil
	}
	return nil
}

// stepPreAfterEol handles the first token of a preformatted line: either
// the closing fence, ending the block, or the start of another
// preformatted line. A lone leading space immediately followed by the
// closing fence is dropped rather than written, matching the source
// engine's treatment of the fence line's indentation.
func (m *Machine) stepPreAfterEol(c *arena.Context, tok token.Token) error {
	if tok.Kind == token.PreformattedFence {
		if err := m.emit(c, m.F.EndPre); err != nil {
			return err
		}
		if err := m.parHook(c, "{{{", false); err != nil {
			return err
		}
		m.State = token.BetweenParagraphs
		return nil
	}
	if err := m.emit(c, m.F.BeginPreLine); err != nil {
		return err
	}
	m.State = token.InPreformatted
	if tok.Kind == token.Space {
		rest := c.Src()
		n := 0
		for n < len(rest) && rest[n] == ' ' {
			n++
		}
		if n+3 <= len(rest) && rest[n] == '}' && rest[n+1] == '}' && rest[n+2] == '}' {
			return nil
		}
	}
	return m.stepPre(c, tok)
}

func (m *Machine) dispatchPluginBetween(c *arena.Context, tok token.Token) error {
	p, ok := plugin.Find(m.F, tok.Name, tok.Kind == token.Placeholder || tok.Kind == token.PlaceholderBlock)
	if ok && !plugin.BetweenPar(p) {
		if err := m.openParagraph(c); err != nil {
			return err
		}
	}
	if !ok {
		return nil
	}
	_, err := plugin.Dispatch(c, p, []byte(tok.Name), tok.Body)
	return err
}

func (m *Machine) dispatchPluginInParagraph(c *arena.Context, tok token.Token) error {
	p, ok := plugin.Find(m.F, tok.Name, tok.Kind == token.Placeholder || tok.Kind == token.PlaceholderBlock)
	if ok && plugin.BetweenPar(p) {
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		if err := m.endPar(c, true); err != nil {
			return err
		}
		m.State = token.BetweenParagraphs
	}
	if !ok {
		return nil
	}
	_, err := plugin.Dispatch(c, p, []byte(tok.Name), tok.Body)
	return err
}

func (m *Machine) dispatchPluginAfterEOL(c *arena.Context, tok token.Token) error {
	p, ok := plugin.Find(m.F, tok.Name, tok.Kind == token.Placeholder || tok.Kind == token.PlaceholderBlock)
	if ok && plugin.BetweenPar(p) {
		if err := style.Flush(c, m.F, m.Opts, m.vars(c)); err != nil {
			return err
		}
		if err := m.endPar(c, true); err != nil {
			return err
		}
		m.State = token.BetweenParagraphs
	} else {
		if err := m.emit(c, m.F.OneSpace); err != nil {
			return err
		}
		m.State = token.InParagraph
	}
	if !ok {
		return nil
	}
	_, err := plugin.Dispatch(c, p, []byte(tok.Name), tok.Body)
	return err
}

func (m *Machine) dispatchPluginInHeading(c *arena.Context, tok token.Token) error {
	p, ok := plugin.Find(m.F, tok.Name, tok.Kind == token.Placeholder || tok.Kind == token.PlaceholderBlock)
	if !ok {
		return nil
	}
	_, err := plugin.Dispatch(c, p, []byte(tok.Name), tok.Body)
	return err
}
