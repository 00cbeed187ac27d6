// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package format defines the output-format descriptor: a frozen, sharable value describing one target
// representation (HTML, LaTeX, RTF, plain text, man, NME round-trip, or a
// null sink) as a collection of fragment strings, encoders, and optional
// callbacks. Descriptor values carry no mutable state and are safe to
// share across concurrent translations.
package format

import "github.com/aleutian-labs/nme/arena"

// Encoder transforms a single rune's worth of input text before it is
// copied to the destination.
// Implementations append the encoded form of r to dst and return it; c is
// the active context, letting an encoder inspect what has already been
// written (the NME round-trip escaper keys on the previous output byte).
type Encoder func(c *arena.Context, dst []byte, r rune) []byte

// URLEncoder transforms a link or image target before it is copied to the
// destination. Implementations append the encoded form of url to dst and
// return it.
type URLEncoder func(c *arena.Context, dst []byte, url []byte) []byte

// WordwrapPermission is the outcome of consulting Descriptor.Wordwrap at a
// candidate break point.
type WordwrapPermission int

const (
	WordwrapNo WordwrapPermission = iota
	WordwrapReplaceChar
	WordwrapInsertBefore
)

// WordwrapFunc decides whether a line break may be inserted at byte i of
// the destination written so far, replacing the byte there
// (WordwrapReplaceChar, e.g. a space) or inserting before it
// (WordwrapInsertBefore). A nil WordwrapFunc with a positive
// WordwrapColumn breaks at the last space on the line, replacing it.
type WordwrapFunc func(dst []byte, i int) WordwrapPermission

// DivHook, ParHook, SpanHook, and CharHook are invoked at block, paragraph,
// inline-style, and per-character boundaries respectively. marker names the construct ("p", "=", "*", "#", ";", ":", "|",
// "|=", "----", "{{{"). enter is true when the construct is opened and
// false when it closes. Any non-nil error aborts the translation
type DivHook func(c *arena.Context, level, item int, marker string, enter bool) error
type ParHook func(c *arena.Context, marker string, enter bool) error
type SpanHook func(c *arena.Context, style arena.Style, enter bool) error
type CharHook func(c *arena.Context, r rune) error

// VariableResolver resolves a single uppercase-letter variable used inside
// a template expression.
type VariableResolver func(letter byte) (value int, ok bool)

// InterwikiEntry maps an alias prefix (matched against the start of a link
// target) to the URL prefix it expands to.
type InterwikiEntry struct {
	Alias  string
	URLPfx string
}

// StyleFragments holds the begin/end fragment pair for one inline style.
type StyleFragments struct {
	Begin string
	End   string
}

// LinkFragments describes how a link or image target is combined with its
// text.
type LinkFragments struct {
	Prefix    string
	Suffix    string
	Separator string // empty means "no separator configured"
	// URLFirst, when true, emits the target before Separator; otherwise
	// the target follows it. When Separator is empty the target is always
	// emitted at open time regardless of URLFirst.
	URLFirst bool
}

// Descriptor fully parameterizes one output target. A zero Descriptor is
// not useful; build one with the bundled formats in this package or
// compose a custom one field by field.
type Descriptor struct {
	Name string

	OneSpace         string
	IndentPerLevel   string
	DefaultFontSize  int
	CtrlChar         byte
	MaxHeadingLevel  int

	Preamble  string
	Postamble string

	BeginHeading, EndHeading string
	BeginParagraph, EndParagraph string
	LineBreak string

	BeginPre, EndPre         string
	BeginPreLine, EndPreLine string

	BeginUL, EndUL     string
	BeginOL, EndOL     string
	BeginDL, EndDL     string
	BeginIndent, EndIndent string // wraps a whole indented block
	BeginIndentedPar, EndIndentedPar string // wraps one paragraph inside an indented block
	BeginULItem, EndULItem string // one unnumbered list item
	BeginOLItem, EndOLItem string // one ordered list item
	BeginDT, EndDT     string // definition title
	BeginDD, EndDD     string // definition definition
	EmptyDT            string // inserted before a DD with no preceding DT

	BeginTable, EndTable         string
	BeginRow, EndRow             string
	BeginHeaderCell, EndHeaderCell string
	BeginCell, EndCell             string

	HorizontalRule string

	Styles [arena.MaxStyleDepth]StyleFragments

	Link, Image LinkFragments
	// SuppressStylesInImageAlt disables inline style fragments while
	// inside image alt text.
	SuppressStylesInImageAlt bool

	WordwrapColumn int
	Wordwrap       WordwrapFunc

	EncodeChar    Encoder // paragraph text
	EncodePreChar Encoder // preformatted blocks
	EncodeURL     URLEncoder

	Interwiki []InterwikiEntry

	Plugins      []PluginEntry
	Autoconverts []AutoconvertEntry

	DivHook  DivHook
	ParHook  ParHook
	SpanHook SpanHook
	CharHook CharHook

	ResolveVariable VariableResolver
}
