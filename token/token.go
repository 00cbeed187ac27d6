// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package token implements the context-sensitive, single-token-lookahead
// reader over the source buffer.
package token

import "github.com/aleutian-labs/nme/arena"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	Char
	Space
	Tab
	EOL
	Heading
	LineBreak
	ListItem
	DefinitionDefinition
	TableCell
	TableHeadingCell
	HorizontalRule
	PreformattedFence
	InlineStyle
	LinkBegin
	LinkEnd
	ImageBegin
	ImageEnd
	Plugin
	PluginBlock
	Placeholder
	PlaceholderBlock
)

func (k Kind) String() string {
	names := [...]string{
		"EOF", "Char", "Space", "Tab", "EOL", "Heading", "LineBreak",
		"ListItem", "DefinitionDefinition", "TableCell", "TableHeadingCell",
		"HorizontalRule", "PreformattedFence", "InlineStyle", "LinkBegin",
		"LinkEnd", "ImageBegin", "ImageEnd", "Plugin", "PluginBlock",
		"Placeholder", "PlaceholderBlock",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Token is the tagged token produced by Next. Only the fields relevant to
// Kind are meaningful; the rest are zero.
type Token struct {
	Kind Kind
	Len  int // source bytes consumed by this token

	Bytes []byte // raw content for Char/Space/Tab

	HeadingLevel int // Heading

	ListDepth  int    // ListItem: requested nesting depth (1-based)
	ListMarker byte   // ListItem: innermost marker, '*', '#', ';', or ':'
	Markers    []byte // ListItem: one marker byte per level, outermost first
	Ordered    bool   // ListItem: true when ListMarker == '#'

	Style arena.Style // InlineStyle

	Name string // Plugin/PluginBlock/Placeholder/PlaceholderBlock
	Body []byte // PluginBlock/PlaceholderBlock

	Escaped bool // true if produced by a ~ escape
}

// BlockState is the block-level parsing mode the tokenizer is sensitive
// to.
type BlockState int

const (
	BetweenParagraphs BlockState = iota
	InParagraph
	AfterEOLInParagraph
	InPreformatted
	AfterEOLInPreformatted
	InHeading
)

// State bundles the context the tokenizer needs beyond the raw byte
// stream: block mode, whether Verbatim is active, the list stack, and
// whether the read position is the first byte of a source line.
type State struct {
	Block       BlockState
	Verbatim    bool
	AtLineStart bool

	ListStack [arena.MaxListDepth]int
	ListDepth int

	// PrecededBySpace is true when the previous byte emitted in the
	// current paragraph was a space or tab; needed to recognize the ':'
	// that starts a DefinitionDefinition.
	PrecededBySpace bool

	// LinkOpen and ImageOpen report whether a link or image span is
	// currently on the style stack: ']]' and '}}' are closing markers
	// only while the matching span is open, and '{{' opens an image only
	// while none is.
	LinkOpen  bool
	ImageOpen bool

	MaxHeadingLevel int
	NoH1            bool
}

func (s State) innermostListKind() (arena.ListKind, bool) {
	if s.ListDepth == 0 {
		return 0, false
	}
	v := s.ListStack[s.ListDepth-1]
	if v > 0 {
		return 0, false
	}
	return arena.ListKind(v), true
}
