// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package option defines the translation option bit-mask shared by every
// engine package.
package option

// Flags is a bit-mask of translation options passed to Translate.
type Flags uint32

const (
	// NoPreamble suppresses the document preamble/postamble fragments.
	NoPreamble Flags = 0x1
	// NoH1 promotes heading level 1 to level 2.
	NoH1 Flags = 0x4
	// NumberH1 numbers heading level 1.
	NumberH1 Flags = 0x8
	// NumberH2 numbers heading level 2.
	NumberH2 Flags = 0x10
	// NoDefinitionList disables definition-list recognition.
	NoDefinitionList Flags = 0x20
	// NoIndentedParagraph disables indented-block recognition.
	NoIndentedParagraph Flags = 0x40
	// NoMultilinePar makes a blank line the only paragraph separator: a
	// single EOL forces paragraph termination and restart on the next
	// Char token.
	NoMultilinePar Flags = 0x80
	// NoEscape disables the ~ escape character.
	NoEscape Flags = 0x100
	// NoHorizontalRule disables ---- recognition.
	NoHorizontalRule Flags = 0x200
	// NoLink disables [[...]] link recognition.
	NoLink Flags = 0x400
	// NoImage disables {{...}} image recognition.
	NoImage Flags = 0x800
	// NoTable disables table-cell recognition.
	NoTable Flags = 0x1000
	// NoUnderline disables __..__ recognition.
	NoUnderline Flags = 0x2000
	// NoMonospace disables ##..## recognition.
	NoMonospace Flags = 0x4000
	// NoSubSuperscript disables ^^..^^ and ,,..,, recognition.
	NoSubSuperscript Flags = 0x8000
	// NoBold disables **..** recognition.
	NoBold Flags = 0x10000
	// NoItalic disables //..// recognition.
	NoItalic Flags = 0x20000
	// NoPlugin disables <<...>> plugin and placeholder recognition.
	NoPlugin Flags = 0x40000
	// VerbatimAsMonospace renders inline verbatim spans as monospace
	// (suppressing the verbatim begin/end fragments when no monospace
	// style is already active).
	VerbatimAsMonospace Flags = 0x100000
	// XRef emits cross-reference anchors on headings.
	XRef Flags = 0x200000
)

// Has reports whether every bit in want is set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }
