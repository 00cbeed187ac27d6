// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package token

import (
	"bytes"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/option"
)

// tryHeading recognizes a leading run of '=' at the start of a line while
// between paragraphs or just after an EOL inside a paragraph. Level is clamped to st.MaxHeadingLevel; NoH1 promotes level 1 to
// level 2.
func tryHeading(src []byte, st State) (Token, bool) {
	if st.Block != BetweenParagraphs && st.Block != AfterEOLInParagraph {
		return Token{}, false
	}
	n := 0
	for n < len(src) && src[n] == '=' {
		n++
	}
	if n == 0 {
		return Token{}, false
	}
	return Token{Kind: Heading, HeadingLevel: headingLevel(n, st), Len: n}, true
}

// tryHeadingClose recognizes the trailing '=' run that ends a heading
// line while InHeading. Only a run followed (apart from blanks) by the
// end of the line counts; a '=' in the middle of the heading text is a
// plain character. The run's length is ignored: the heading closes at
// the level it opened with.
func tryHeadingClose(src []byte, st State) (Token, bool) {
	n := 0
	for n < len(src) && src[n] == '=' {
		n++
	}
	if n == 0 {
		return Token{}, false
	}
	k := n
	for k < len(src) && (src[k] == ' ' || src[k] == '\t') {
		k++
	}
	if k < len(src) && src[k] != '\n' && src[k] != '\r' {
		return Token{}, false
	}
	return Token{Kind: Heading, HeadingLevel: headingLevel(n, st), Len: n}, true
}

func headingLevel(runLen int, st State) int {
	level := runLen
	max := st.MaxHeadingLevel
	if max <= 0 {
		max = 6
	}
	if level > max {
		level = max
	}
	if st.NoH1 && level == 1 {
		level = 2
	}
	return level
}

func tryHorizontalRule(src []byte) (Token, bool) {
	n := 0
	for n < len(src) && src[n] == '-' {
		n++
	}
	if n < 4 {
		return Token{}, false
	}
	// Consume the rest of the line too, up to (not including) the EOL.
	j := n
	for j < len(src) && src[j] != '\n' {
		j++
	}
	return Token{Kind: HorizontalRule, Len: j}, true
}

// markerKind maps a list-item leading character to the ListKind it
// introduces when opening a new depth, and reports whether it is numeric
// (ordered).
func markerKind(ch byte) (arena.ListKind, bool, bool) {
	switch ch {
	case '*':
		return arena.ListUnnumbered, false, true
	case '#':
		return 0, true, true
	case ';':
		return arena.ListDefinitionTitle, false, true
	case ':':
		return arena.ListDefinitionDefinition, false, true
	}
	return 0, false, false
}

// compatibleAt reports whether marker ch is consistent with the list kind
// already open at stack depth d (0-based): a line continues existing
// nesting only when its marker prefix agrees with every open level.
func compatibleAt(stack [arena.MaxListDepth]int, d int, ch byte) bool {
	existing := stack[d]
	wantKind, wantOrdered, _ := markerKind(ch)
	if existing > 0 {
		return wantOrdered
	}
	if wantOrdered {
		return false
	}
	ek := arena.ListKind(existing)
	// ':' is ambiguous between DefinitionDefinition and Indented; either
	// reading of an already-open ':' slot is compatible with a new ':'
	// marker.
	if ch == ':' {
		return ek == arena.ListDefinitionDefinition || ek == arena.ListIndented || ek == arena.ListDefinitionTitle
	}
	// A new ';' term is also compatible with a depth already holding the
	// matching definition half: the same definition list alternates
	// between title and definition items at one depth.
	if ch == ';' && ek == arena.ListDefinitionDefinition {
		return true
	}
	return ek == wantKind
}

// markerEnabled reports whether a list-marker byte participates in list
// recognition under opts: NoDefinitionList drops ';', and ':' survives as
// long as either its definition-list or indented-paragraph reading is
// still enabled.
func markerEnabled(ch byte, opts option.Flags) bool {
	switch ch {
	case ';':
		return !opts.Has(option.NoDefinitionList)
	case ':':
		return !opts.Has(option.NoDefinitionList) || !opts.Has(option.NoIndentedParagraph)
	}
	return true
}

// tryListItem recognizes the leading run of list markers (*, #, ;, :) and
// checks it for prefix-compatibility with the already-open list stack
// With no list open, a doubled '*' or '#' at
// line start reads as a bold or monospace marker instead (plain text when
// that style is disabled): nested items only make sense below an existing
// level.
func tryListItem(src []byte, st State, opts option.Flags) (Token, bool) {
	if st.ListDepth == 0 && len(src) >= 2 && src[1] == src[0] &&
		(src[0] == '*' || src[0] == '#') {
		return Token{}, false
	}
	n := 0
	for n < len(src) && n < arena.MaxListDepth {
		ch := src[n]
		if _, _, ok := markerKind(ch); !ok || !markerEnabled(ch, opts) {
			break
		}
		n++
	}
	if n == 0 {
		return Token{}, false
	}
	for d := 0; d < n && d < st.ListDepth; d++ {
		if !compatibleAt(st.ListStack, d, src[d]) {
			return Token{}, false
		}
	}
	last := src[n-1]
	_, ordered, _ := markerKind(last)
	consumed := n
	if consumed < len(src) && src[consumed] == ' ' {
		consumed++
	}
	markers := make([]byte, n)
	copy(markers, src[:n])
	return Token{Kind: ListItem, ListDepth: n, ListMarker: last, Markers: markers, Len: consumed, Ordered: ordered}, true
}

// tryPreformattedFence recognizes {{{ followed by only blanks to end of
// line (otherwise it is a verbatim-open style marker instead).
func tryPreformattedFence(src []byte) (Token, bool) {
	if !bytes.HasPrefix(src, []byte("{{{")) {
		return Token{}, false
	}
	j := 3
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j == len(src) || src[j] == '\n' {
		return Token{Kind: PreformattedFence, Len: 3}, true
	}
	return Token{}, false
}

func tryVerbatimOpenOrFence(src []byte) (Token, bool) {
	if !bytes.HasPrefix(src, []byte("{{{")) {
		return Token{}, false
	}
	// tryPreformattedFence already ran at line start; reaching here means
	// either we're not at line start, or the rest of the line isn't
	// blank, so this {{{ opens an inline verbatim span.
	return Token{Kind: InlineStyle, Style: arena.StyleVerbatim, Len: 3}, true
}

// tryPreformattedClose recognizes the '}}}' fence that ends a
// preformatted block at line start. A fourth '}' makes the first byte
// plain text instead, letting a block contain '}}}' via '}}}}'
func tryPreformattedClose(src []byte) (Token, bool) {
	if len(src) >= 4 && src[0] == '}' && src[1] == '}' && src[2] == '}' && src[3] == '}' {
		return Token{}, false
	}
	if bytes.HasPrefix(src, []byte("}}}")) {
		return Token{Kind: PreformattedFence, Len: 3}, true
	}
	return Token{}, false
}

func tryTableCell(src []byte) (Token, bool) {
	if len(src) == 0 || src[0] != '|' {
		return Token{}, false
	}
	if len(src) >= 2 && src[1] == '=' {
		consumed := 2
		if consumed < len(src) && src[consumed] == ' ' {
			consumed++
		}
		return Token{Kind: TableHeadingCell, Len: consumed}, true
	}
	consumed := 1
	if consumed < len(src) && src[consumed] == ' ' {
		consumed++
	}
	return Token{Kind: TableCell, Len: consumed}, true
}
