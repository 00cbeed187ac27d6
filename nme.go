// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package nme implements a streaming translator for a lightweight
// wiki-style markup (a Creole dialect) into a configurable target
// representation: HTML, LaTeX, RTF, plain text, man, NME round-trip, or a
// null sink.
//
// Translate is the single entry point. It drives the tokenizer (package
// token), the block-level state machine (package block), the style-span
// controller (package style), the plugin/autoconvert driver (package
// plugin), and the template emitter (package template) over a caller-
// supplied arena (package arena), producing output governed entirely by
// the format.Descriptor passed in.
package nme

import (
	"github.com/google/uuid"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/block"
	"github.com/aleutian-labs/nme/format"
	"github.com/aleutian-labs/nme/option"
	"github.com/aleutian-labs/nme/plugin"
	"github.com/aleutian-labs/nme/token"
)

// Result is the outcome of a successful Translate call: the formatted
// output (followed, within the arena, by a trailing zero byte not
// included in this slice) and its length in UCS-16 code units.
type Result struct {
	Output   []byte
	UCS16Len int
}

// Translate runs one translation of input under format f and options
// opts, using eol as the configured end-of-line sequence and fontSize as
// the starting default font size, within an arena of arenaSize bytes
// (split into two equal halves).
//
// On success the returned Result's Output aliases the arena; it is valid
// only until the next Translate call using the same arena. A non-nil
// error is one of ErrNotEnoughMemory (retry with a larger arenaSize),
// ErrInternal (a parser bug), or an error returned by a hook, plugin, or
// autoconvert callback.
func Translate(input []byte, arenaSize int, opts option.Flags, eol string, f *format.Descriptor, fontSize int) (Result, error) {
	a, err := arena.New(arenaSize)
	if err != nil {
		return Result{}, err
	}
	c, err := arena.NewContext(a, input, eol, f.CtrlChar, uint32(opts), fontSize)
	if err != nil {
		return Result{}, err
	}
	// Tag the run so hook callbacks (and whatever they log or trace) can
	// correlate everything belonging to this one translation.
	c.RequestID = uuid.NewString()

	m := block.NewMachine(f, opts)
	if err := m.Begin(c); err != nil {
		return Result{}, err
	}

	atLineStart := true
	precededBySpace := false

	for {
		// Autoconvert is offered the current position before every token
		// except inside a preformatted block, where text is always literal
		if m.State != token.InPreformatted && m.State != token.AfterEOLInPreformatted {
			if _, err := plugin.TryAutoconvert(c, f); err != nil {
				return Result{}, err
			}
		}

		st := m.TokenizerState(c, atLineStart, precededBySpace)
		tok := token.Next(c, opts, st)
		if tok.Kind == token.EOF {
			break
		}

		atLineStart = tok.Kind == token.EOL
		precededBySpace = tok.Kind == token.Space || tok.Kind == token.Tab

		if err := m.Step(c, tok); err != nil {
			return Result{}, err
		}
	}

	if err := m.Finish(c); err != nil {
		return Result{}, err
	}

	out, err := c.Finish()
	if err != nil {
		return Result{}, err
	}
	return Result{Output: out, UCS16Len: c.DestUCS16Len()}, nil
}
